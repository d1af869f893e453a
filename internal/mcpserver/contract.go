package mcpserver

// ManifestFormatContract describes the YAML manifest accepted by the
// compose_document tool.
const ManifestFormatContract = `# Document Manifest Format

A manifest lists document elements in order. Each entry sets exactly one key.

` + "```" + `yaml
name: intro                 # OPTIONAL – informational only
elements:
  - text: "Hello, world!"   # literal text, rendered verbatim
  - newline: true           # renders "\n"
  - tab: true               # renders "\t"
  - image: image.png        # renders "[Image: image.png]"; path is not checked
` + "```" + `

## Rules

1. Entries are appended in the order listed, after any existing elements.
2. An entry with zero or more than one key is rejected and nothing is appended.
3. Empty text and empty image paths are allowed.
`
