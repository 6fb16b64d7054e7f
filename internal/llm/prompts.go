package llm

import _ "embed"

var (
	//go:embed prompts/critique_v1.txt
	critiquePromptV1 string
	//go:embed prompts/critique_posting_v1.txt
	critiquePostingPromptV1 string
	//go:embed prompts/revision_v1.txt
	revisionPromptV1 string
	//go:embed prompts/revision_posting_v1.txt
	revisionPostingPromptV1 string
)

// CritiquePrompt returns the critique instruction template. The posting
// variant scores how well the resume matches a specific job posting; the
// standard variant reviews the resume on its own.
func CritiquePrompt(withPosting bool) string {
	if withPosting {
		return critiquePostingPromptV1
	}
	return critiquePromptV1
}

// RevisionPrompt returns the revision instruction template.
func RevisionPrompt(withPosting bool) string {
	if withPosting {
		return revisionPostingPromptV1
	}
	return revisionPromptV1
}
