package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
	"time"
)

//go:embed templates/*
var templatesFS embed.FS

type SystemInstructionData struct {
	Congress        int
	CongressBaseURL string
	Tools           []string
	Today           string
}

// RenderSystemInstruction renders the assistant's system prompt using embedded Go templates
func RenderSystemInstruction(congress int, congressBaseURL string, tools []string) (string, error) {
	content, err := templatesFS.ReadFile("templates/system_instruction.md")
	if err != nil {
		return "", err
	}

	tmpl, err := template.New("system_instruction").Funcs(template.FuncMap{"ordinal": ordinal}).Parse(string(content))
	if err != nil {
		return "", err
	}

	data := SystemInstructionData{
		Congress:        congress,
		CongressBaseURL: congressBaseURL,
		Tools:           tools,
		Today:           time.Now().Format(time.DateOnly),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
