package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names.
const (
	// PromptBusinessIdea asks for one structured business idea.
	// The template uses %[1]s for the category label, possibly more than once.
	PromptBusinessIdea = "business_idea"

	// PromptIdeaSystem is the system instruction for idea generation.
	// This prompt has no format placeholders.
	PromptIdeaSystem = "idea_system"
)
