package shell

import (
	"fmt"
	"io"
)

const promptFuncs = `# agendactl shell integration
__agendactl_prompt_hook() {
  eval "$(command agendactl status --env 2>/dev/null)"
}

agendactl_prompt_info() {
  command agendactl status 2>/dev/null
}
`

var hooks = map[string]string{
	"bash": `
if [[ -z "$PROMPT_COMMAND" ]]; then
  PROMPT_COMMAND="__agendactl_prompt_hook"
else
  PROMPT_COMMAND="__agendactl_prompt_hook;${PROMPT_COMMAND}"
fi
`,
	"zsh": `
autoload -Uz add-zsh-hook
add-zsh-hook precmd __agendactl_prompt_hook
`,
}

// Supported lists the shells WriteInit knows about.
func Supported() []string { return []string{"bash", "zsh"} }

// WriteInit writes the integration script for the named shell: the prompt
// helpers, the hook that refreshes AGENDACTL_* variables before each prompt
// and, when completions is set, the cobra completion script.
func WriteInit(w io.Writer, shell string, completions bool) error {
	hook, ok := hooks[shell]
	if !ok {
		return fmt.Errorf("unsupported shell %q (supported: bash, zsh)", shell)
	}
	script := promptFuncs + hook
	if completions {
		script += fmt.Sprintf("\neval \"$(command agendactl completion %s 2>/dev/null)\"\n", shell)
	}
	_, err := io.WriteString(w, script)
	return err
}
