package prompt

import (
	"fmt"
	"strings"

	"github.com/mimircode/mimircode/pkg/types"
)

// Facet selects one of the three independent analyses that make up a deep
// documentation document. Facets are dispatched per whole file and
// assembled in fixed order regardless of individual outcomes.
type Facet string

const (
	FacetSummary    Facet = "summary"
	FacetComponents Facet = "components"
	FacetExamples   Facet = "examples"
)

// DeepFacets lists the deep-documentation facets in assembly order.
var DeepFacets = []Facet{FacetSummary, FacetComponents, FacetExamples}

// Heading returns the document section heading for the facet.
func (f Facet) Heading() string {
	switch f {
	case FacetComponents:
		return "Properties, Variables, and Functions"
	case FacetExamples:
		return "Examples on How to Use the Code"
	default:
		return "Overall Summary"
	}
}

// Builder constructs the natural-language instructions sent to the
// inference endpoint. All methods are pure string construction.
type Builder struct{}

// New creates a prompt Builder.
func New() *Builder {
	return &Builder{}
}

// Documentation builds the per-chunk prompt for the basic documentation
// task. The part annotation is included only for multi-chunk files.
func (b *Builder) Documentation(chunk types.Chunk, fileName, language string) string {
	partInfo := chunk.PartLabel()
	if partInfo != "" {
		partInfo += "\n"
	}

	return fmt.Sprintf(`You are an expert software engineer and technical writer.
Your task is to analyze the following %s code or configuration snippet from the file '%s'.
%s
Provide a detailed, human-readable explanation of what this code/config snippet does, its purpose, and its inner workings.
Focus on clarity and conciseness, making it easy for non-experts to understand.

**Key Requirements:**
1.  **For Code:** Identify any classes, functions, methods, or significant variables/enums within this snippet.
    **Bold their names** using Markdown (e.g., **ClassName**, **function_name()**, **CONSTANT_NAME**).
    Explain their roles and how they contribute to the overall functionality.
2.  **For Configuration Files:** Explain the structure, purpose of different sections/keys, and what values they typically hold.
3.  **Overall Context:** If this is part of a larger file, try to infer its context or contribution to the whole.

Code/Configuration snippet:
%s
Documentation:
`, language, fileName, partInfo, chunk.Text)
}

// Deep builds the whole-file prompt for one deep-documentation facet.
func (b *Builder) Deep(facet Facet, content, fileName, language string) string {
	switch facet {
	case FacetComponents:
		return fmt.Sprintf(`You are an expert software engineer and technical writer.
Analyze the following %[1]s code/configuration from the file '%[2]s'.
Identify and explain the purpose and role of all significant classes, functions, methods, variables, constants, and enums.
For each identified component, provide a clear, concise description.
**Bold their names** using Markdown (e.g., **ClassName**, **function_name()**, **CONSTANT_NAME**).
Organize this information clearly using subheadings (e.g., 'Classes', 'Functions', 'Variables').

Code/Configuration:
`+"```%[1]s\n%[3]s\n```"+`

Detailed Explanation of Components:
`, language, fileName, content)
	case FacetExamples:
		return fmt.Sprintf(`You are an expert software engineer and technical writer.
Consider the following %[1]s code from the file '%[2]s'.
Does this code require usage examples to be properly understood?
If YES, provide 1-3 clear and concise code examples demonstrating how to use the main functionalities of this code.
Use code blocks for examples. Explain what each example does.
If NO (e.g., it's a configuration file, a simple script that runs on its own, or a highly internal utility), just state 'N/A' or 'No specific usage examples are typically required for this type of file.'.

Code/Configuration:
`+"```%[1]s\n%[3]s\n```"+`

Usage Examples:
`, language, fileName, content)
	default:
		return fmt.Sprintf(`You are an expert software engineer and technical writer.
Analyze the following %[1]s code/configuration from the file '%[2]s'.
Provide a concise, high-level summary of its primary purpose, what problem it solves, and its main functionalities.
Keep it to 2-3 paragraphs.

Code/Configuration:
`+"```%[1]s\n%[3]s\n```"+`

Summary:
`, language, fileName, content)
	}
}

// Analysis builds the per-chunk prompt for the static-analysis task. For
// chunked files a context hint describes the part position; the model only
// ever sees one chunk at a time.
func (b *Builder) Analysis(chunk types.Chunk, fileName, language string) string {
	projectContext := ""
	if chunk.Total > 1 {
		projectContext = fmt.Sprintf(
			"This is part %d of %d of the file. Consider previous parts if they were processed, though this model only sees this chunk.",
			chunk.Index, chunk.Total)
	}

	return fmt.Sprintf(`You are an expert software architect and refactoring specialist.
Analyze the following %s code snippet from the file '%s'.
Consider the overall '%s' if provided, to infer design patterns or common practices.

Provide detailed recommendations for:

1.  **Code Reuse/Refactoring:**
    * Identify duplicated code blocks or logic.
    * Suggest opportunities to extract common functionalities into reusable functions, classes, or modules.
    * Propose design pattern applications (e.g., Strategy, Factory, Singleton if appropriate) to improve maintainability and extensibility.
    * Recommend breaking down large functions/classes into smaller, more focused units.
    * Suggest improving code organization, modularity, and separation of concerns.
    * Highlight any "code smells" (e.g., long methods, large classes, primitive obsession, feature envy) and suggest specific refactoring techniques to address them.

2.  **Code Comments/IntelliSense Recommendations:**
    * Identify areas where inline comments or block comments would significantly improve code clarity, especially for complex logic, tricky algorithms, or non-obvious design choices.
    * Suggest appropriate docstrings/XML comments (e.g., for Python functions, C# methods, Java methods) detailing parameters, return values, exceptions, and overall purpose.
    * Recommend type hints or interface definitions where missing to improve static analysis and IntelliSense support.
    * Point out any unclear variable names, function names, or class names and suggest more descriptive alternatives.

3.  **Potential Dead Code Audit:**
    * Identify code blocks, functions, or variables that appear to be unused or unreachable based *solely on this snippet's context*.
    * Note: Acknowledge that a complete dead code audit requires whole-project static analysis, but provide initial suspicions.
    * Look for commented-out code that could potentially be removed.

Present your findings clearly, using Markdown for formatting (e.g., bullet points, code blocks).
Be specific in your recommendations, referencing line numbers or code patterns where possible.

Code snippet:
    %s

Analysis and Recommendations:
`, language, fileName, projectContext, chunk.Text)
}

// ProjectSummary builds the cross-file synthesis prompt used by the
// analysis task's project index. It lists relative paths with language
// tags only — never file contents — so the request stays bounded no matter
// how large the project is.
func (b *Builder) ProjectSummary(entries []types.IndexEntry) string {
	var list strings.Builder
	for i, e := range entries {
		if i > 0 {
			list.WriteString("\n")
		}
		list.WriteString(fmt.Sprintf("- %s (%s)", e.RelPath, e.Language))
	}

	return fmt.Sprintf(`You are an expert software architect tasked with providing a high-level summary of a codebase.
I have analyzed the following files in a project:

%s

Based on typical code analysis patterns, what are common themes or areas that might show:
-   **Cross-file code reuse opportunities?** (e.g., similar utility functions across different files)
-   **Major refactoring areas that might span multiple files?** (e.g., inconsistencies in error handling, data structures, or common design patterns not being consistently applied)
-   **Overall documentation gaps or style inconsistencies?**
-   **General indications of potential dead code across the project (e.g., unused libraries, deprecated features)?**

Do not provide specific code examples, but rather high-level observations and recommendations for further investigation.

Overall Codebase Analysis Summary:
`, list.String())
}
