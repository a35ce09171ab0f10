// Package prompt renders the fixed instruction templates sent to the model.
// The wording is part of the contract with the model and must not drift.
package prompt

import (
	"strings"
)

// Mode selects between summarization and question answering.
type Mode string

const (
	ModeSummarize Mode = "summarize"
	ModeQuery     Mode = "query"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeSummarize || m == ModeQuery
}

const (
	criteriaVar = "{criteria_explanations_text}"
	documentVar = "{document}"
	queryVar    = "{user_query}"
	partialsVar = "{partials}"
)

const summarizeTemplate = "Write a long summary of the following document. \n" +
	"    Only include information that is part of the document. \n" +
	"    Do not include your own opinion or analysis.\n" +
	"\n" +
	"    Criteria explanations:\n" +
	"    \"" + criteriaVar + "\"\n" +
	"\n" +
	"    Document:\n" +
	"    \"" + documentVar + "\"\n" +
	"    Summary:"

const summaryReduceTemplate = "The following is a set of summaries of consecutive parts of one document:\n" +
	partialsVar + "\n" +
	"Take these and distill it into a final, consolidated long summary of the document. \n" +
	"Only include information that is part of the summaries. \n" +
	"Do not include your own opinion or analysis.\n" +
	"\n" +
	"Criteria explanations:\n" +
	"\"" + criteriaVar + "\"\n" +
	"Summary:"

const queryInstruction = "Based on this list of documents, please identify the information that is most relevant to the following query:"

const queryTemplate = queryInstruction + "\n" +
	queryVar + "\n" +
	"\n" +
	"Criteria explanations:\n" +
	"\"" + criteriaVar + "\"\n" +
	"\n" +
	"If the document is not relevant, please write \"not relevant\".\n" +
	"\n" +
	"Document:\n" +
	"\"" + documentVar + "\"\n" +
	"Helpful Answer:"

const reduceInstruction = "The following is set of partial answers to a user query. Take these and distill it into a final, consolidated answer to the query."

const queryReduceTemplate = reduceInstruction + "\n" +
	"\n" +
	"Query:\n" +
	queryVar + "\n" +
	"\n" +
	"Partial answers:\n" +
	partialsVar + "\n" +
	"Helpful Answer:"

// partialSeparator divides partial results inside reduce prompts.
const partialSeparator = "\n\n"

// Summarize renders the per-document (or per-chunk) summary prompt.
func Summarize(criteria, document string) string {
	return render(summarizeTemplate, criteriaVar, criteria, documentVar, document)
}

// SummaryReduce renders the prompt that merges chunk summaries into one summary.
func SummaryReduce(criteria string, partials []string) string {
	return render(summaryReduceTemplate, criteriaVar, criteria, partialsVar, strings.Join(partials, partialSeparator))
}

// Query renders the per-document extraction prompt.
func Query(query, criteria, document string) string {
	return render(queryTemplate, queryVar, query, criteriaVar, criteria, documentVar, document)
}

// QueryReduce renders the prompt that merges per-document answers.
func QueryReduce(query string, partials []string) string {
	return render(queryReduceTemplate, queryVar, query, partialsVar, strings.Join(partials, partialSeparator))
}

// Preview returns the instructions of a run without any document text, for
// display next to the results.
func Preview(mode Mode, query, criteria string) string {
	if mode == ModeQuery {
		return queryInstruction + " " + query +
			" Criteria explanations: " + criteria +
			" If the document is not relevant, please write not relevant" +
			" Reduce prompt: " + reduceInstruction
	}
	instructions, _, _ := strings.Cut(Summarize(criteria, ""), "\n\n    Document:")
	return strings.Join(strings.Fields(instructions), " ")
}

// render substitutes placeholders in a single pass, so template markers inside
// document text are left untouched.
func render(template string, oldnew ...string) string {
	return strings.NewReplacer(oldnew...).Replace(template)
}
