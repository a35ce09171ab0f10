package criteria

var defaults = []Entry{
	{
		Name:        "Economic Feasibility",
		Explanation: "Evaluate the economic feasibility of the location: land and construction costs, operating and utility costs, taxes, and available subsidies or incentives.",
	},
	{
		Name:        "Infrastructure and Accessibility",
		Explanation: "Describe the infrastructure and accessibility of the location: road, rail, port and airport connections, energy and water supply, and telecommunications.",
	},
	{
		Name:        "Environmental Sustainability",
		Explanation: "Assess environmental sustainability: environmental regulations, emission limits, availability of renewable energy, and risks such as flooding or contaminated land.",
	},
	{
		Name:        "Labor Market and Workforce",
		Explanation: "Summarize the labor market: availability of skilled workers, wage levels, education and training institutions, and unemployment figures.",
	},
	{
		Name:        "Proximity and Logistics",
		Explanation: "Evaluate proximity to suppliers, customers and markets, and the logistics costs and lead times that follow from it.",
	},
	{
		Name:        "Legal and Political",
		Explanation: "Report on the legal and political environment: permitting procedures, zoning, political stability, and trade or investment restrictions.",
	},
	{
		Name:        "Growth and Scalability",
		Explanation: "Assess growth and scalability: room for future expansion, availability of adjacent land, and the capacity of local infrastructure to grow with the plant.",
	},
	{
		Name:        "Innovation and Technological Ecosystem",
		Explanation: "Describe the innovation ecosystem: nearby universities and research institutes, technology clusters, and access to partners and start-ups.",
	},
}

// Defaults returns the built-in factory-location criteria.
func Defaults() []Entry {
	out := make([]Entry, len(defaults))
	copy(out, defaults)
	return out
}

func defaultNames() []string {
	names := make([]string, len(defaults))
	for i, e := range defaults {
		names[i] = e.Name
	}
	return names
}
