package template

// Data is passed to every project template. Hooks and Permissions hold the
// JSON-shaped values embedded with toJSON.
type Data struct {
	ProjectName string
	ConfigDir   string
	Version     string

	Hooks       any
	Permissions any

	Instructions []Instruction
}

// Instruction is one section of the generated CLAUDE.md.
type Instruction struct {
	Name  string
	Title string
	Body  string
}
