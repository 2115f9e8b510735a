package orchestrator

import (
	"encoding/json"
	"fmt"

	"github.com/modforge/modforge/internal/gateway"
	"github.com/modforge/modforge/internal/spec"
)

const generationSystemPrompt = `You generate a React component bundle. Return ONLY JSON: {summary:string, files:{path:string}}`

const updateSystemPrompt = `You output ONLY JSON: {patches:[{path,patch}], summary:string}. Patches must be unified diff and apply cleanly.`

// generationMessages builds the chat turns for a from-scratch generation,
// embedding the full spec as pretty-printed JSON.
func generationMessages(s spec.ComponentSpec) []gateway.Message {
	specJSON, _ := json.MarshalIndent(s, "", "  ")
	user := fmt.Sprintf("SPEC JSON:\n%s\n\nReturn files under generated/%s/ with .jsx/.css/.stories.jsx/.test.jsx",
		specJSON, s.ComponentName)
	return []gateway.Message{
		{Role: "system", Content: generationSystemPrompt},
		{Role: "user", Content: user},
	}
}

// updateMessages builds the chat turns for an update, embedding the
// instruction and the complete current file map.
func updateMessages(instruction string, files map[string]string) []gateway.Message {
	filesJSON, _ := json.MarshalIndent(files, "", "  ")
	user := fmt.Sprintf("INSTRUCTION:\n%s\n\nFILES (path->content):\n%s", instruction, filesJSON)
	return []gateway.Message{
		{Role: "system", Content: updateSystemPrompt},
		{Role: "user", Content: user},
	}
}
