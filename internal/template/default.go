package template

// DefaultTemplate is the embedded result document.
// It uses {{variable}} placeholders for dynamic content injection.
const DefaultTemplate = `# Hey {{name}},

your personality is

## {{personality}}

{{description}}

{{breakdown}}
{{changes}}
{{history}}`
