// internal/cli/help.go
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/law-makers/newswatch/internal/ui"
)

// minFlagWidth keeps flag descriptions in one column across sections
const minFlagWidth = 28

// customHelpFunc provides a colorized help output
func customHelpFunc(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "\n%s\n", ui.Title(strings.ToUpper(cmd.Name())))
	if cmd.Short != "" {
		fmt.Fprintln(out, cmd.Short)
	}
	if cmd.Long != "" && cmd.Long != cmd.Short {
		fmt.Fprintf(out, "\n%s\n", wrapText(cmd.Long, 80))
	}

	writeUsage(out, cmd)
	writeExamples(out, cmd.Example)
	writeCommands(out, cmd)

	if cmd.HasAvailableLocalFlags() {
		writeSection(out, "Flags")
		printFlagsTo(out, cmd.LocalFlags().FlagUsages())
	}
	if cmd.HasAvailableInheritedFlags() {
		writeSection(out, "Global Flags")
		printFlagsTo(out, cmd.InheritedFlags().FlagUsages())
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(out, "\n%s%s %s %s%s\n",
			ui.Dim(`Use "`),
			ui.Command(cmd.CommandPath()),
			ui.Placeholder("<command>"),
			ui.Flag("--help"),
			ui.Dim(`" for more information about a command.`))
	}
	fmt.Fprintln(out)
}

// customUsageFunc provides a colorized usage output on stderr
func customUsageFunc(cmd *cobra.Command) error {
	out := cmd.ErrOrStderr()

	writeUsage(out, cmd)
	writeCommands(out, cmd)
	if cmd.HasAvailableLocalFlags() {
		writeSection(out, "Flags")
		printFlagsTo(out, cmd.LocalFlags().FlagUsages())
	}

	fmt.Fprintf(out, "\n%s%s %s%s\n",
		ui.Dim(`Use "`),
		ui.Command(cmd.CommandPath()),
		ui.Flag("--help"),
		ui.Dim(`" for more information.`))
	return nil
}

func writeSection(out io.Writer, title string) {
	fmt.Fprintf(out, "\n%s\n", ui.Heading(title))
}

func writeUsage(out io.Writer, cmd *cobra.Command) {
	writeSection(out, "Usage")
	if cmd.Runnable() {
		fmt.Fprintf(out, "  %s\n", ui.Command(cmd.UseLine()))
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(out, "  %s %s %s\n",
			ui.Command(cmd.CommandPath()),
			ui.Placeholder("<command>"),
			ui.Dim("[flags]"))
	}
}

// writeExamples renders "# comment" lines dimmed and commands with a prompt
func writeExamples(out io.Writer, example string) {
	if strings.TrimSpace(example) == "" {
		return
	}
	writeSection(out, "Examples")

	afterCommand := false
	for _, line := range strings.Split(example, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "#"):
			if afterCommand {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "  %s\n", ui.Dim(line))
			afterCommand = false
		default:
			fmt.Fprintf(out, "  %s\n", ui.Flag("$ "+line))
			afterCommand = true
		}
	}
}

func writeCommands(out io.Writer, cmd *cobra.Command) {
	if !cmd.HasAvailableSubCommands() {
		return
	}
	writeSection(out, "Commands")

	var cmds []*cobra.Command
	width := 0
	for _, c := range cmd.Commands() {
		if !c.IsAvailableCommand() || c.Name() == "help" {
			continue
		}
		cmds = append(cmds, c)
		width = max(width, len(c.Name()))
	}

	for _, c := range cmds {
		fmt.Fprintf(out, "  %s%s%s\n",
			ui.Command(c.Name()),
			strings.Repeat(" ", width-len(c.Name())+2),
			ui.Dim(c.Short))
	}
}

// printFlagsTo prints pflag usage text with flags and descriptions in aligned, colored columns
func printFlagsTo(out io.Writer, flagUsages string) {
	lines := strings.Split(flagUsages, "\n")

	width := minFlagWidth
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if strings.HasPrefix(trimmed, "-") {
			flagPart, _, _ := strings.Cut(trimmed, "  ")
			width = max(width, len(strings.TrimSpace(flagPart)))
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" {
			continue
		}

		if !strings.HasPrefix(trimmed, "-") {
			// continuation of the previous description
			fmt.Fprintf(out, "%s%s\n", strings.Repeat(" ", width+4), ui.Dim(trimmed))
			continue
		}

		flagPart, desc, ok := strings.Cut(trimmed, "  ")
		flagPart = strings.TrimSpace(flagPart)
		if !ok {
			fmt.Fprintf(out, "  %s\n", ui.Flag(flagPart))
			continue
		}
		fmt.Fprintf(out, "  %s%s%s\n",
			ui.Flag(flagPart),
			strings.Repeat(" ", width-len(flagPart)+2),
			ui.Dim(strings.TrimSpace(desc)))
	}
}

// wrapText wraps text at width, keeping paragraphs and list items on their own lines
func wrapText(text string, width int) string {
	var paragraphs []string

	for _, para := range strings.Split(text, "\n\n") {
		var lines []string
		for _, line := range strings.Split(para, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") || strings.HasPrefix(line, "*") {
				lines = append(lines, line)
				continue
			}

			var current strings.Builder
			for _, word := range strings.Fields(line) {
				switch {
				case current.Len() == 0:
				case current.Len()+1+len(word) <= width:
					current.WriteByte(' ')
				default:
					lines = append(lines, current.String())
					current.Reset()
				}
				current.WriteString(word)
			}
			if current.Len() > 0 {
				lines = append(lines, current.String())
			}
		}
		if len(lines) > 0 {
			paragraphs = append(paragraphs, strings.Join(lines, "\n"))
		}
	}

	return strings.Join(paragraphs, "\n\n")
}
