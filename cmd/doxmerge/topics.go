package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

//go:embed docs/*.md
var topicFiles embed.FS

var topicsCmd = &cobra.Command{
	Use:   "topics [topic]",
	Short: "Display available documentation topics",
	Long:  `Display a list of all available help topics that provide additional documentation beyond command help.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return listTopics(cmd)
		}
		return showTopic(cmd, args[0])
	},
}

func topicNames() ([]string, error) {
	entries, err := topicFiles.ReadDir("docs")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
	}
	sort.Strings(names)
	return names, nil
}

func listTopics(cmd *cobra.Command) error {
	names, err := topicNames()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), formatBoldUpper("topics"))
	for _, name := range names {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "\nUse \"doxmerge topics <topic>\" to read one.")
	return nil
}

func showTopic(cmd *cobra.Command, name string) error {
	content, err := topicFiles.ReadFile("docs/" + name + ".md")
	if err != nil {
		return fmt.Errorf("unknown topic %q", name)
	}

	fmt.Fprint(cmd.OutOrStdout(), renderMarkdown(string(content)))
	return nil
}

// renderMarkdown converts markdown to terminal output via glamour, falling
// back to the raw text when rendering is unavailable or stdout is piped.
func renderMarkdown(content string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return content
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
