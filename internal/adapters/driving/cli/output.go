package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/iptrace/internal/core/domain"
)

// styles holds the lipgloss styles for result output.
type styles struct {
	Title   lipgloss.Style
	Address lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
}

// plainStyles render text unchanged.
func plainStyles() styles {
	return styles{
		Title:   lipgloss.NewStyle(),
		Address: lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
	}
}

// colourStyles use the same palette as the rest of the CLI.
func colourStyles() styles {
	return styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		Address: lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
	}
}

// stylesFor returns colour styles only when w is a terminal.
func stylesFor(w io.Writer) styles {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return colourStyles()
	}
	return plainStyles()
}

// printResult writes a human-readable report of one run.
func printResult(w io.Writer, st styles, source domain.SourceDescriptor, result *domain.ResultSet, err error) {
	if result == nil {
		fmt.Fprintf(w, "%s %s\n", st.Title.Render(source.Label()), st.Error.Render("failed: "+errString(err)))
		return
	}

	if result.IsEmpty() {
		fmt.Fprintf(w, "%s %s\n", st.Title.Render(result.Source.Label()), st.Muted.Render("(no IP addresses found)"))
	} else {
		noun := "addresses"
		if result.Len() == 1 {
			noun = "address"
		}
		fmt.Fprintf(w, "%s %s\n", st.Title.Render(result.Source.Label()),
			st.Muted.Render(fmt.Sprintf("(%d %s)", result.Len(), noun)))
		for _, a := range result.Addresses {
			fmt.Fprintf(w, "  %s %-4s %s\n",
				st.Address.Render(fmt.Sprintf("%-39s", a.Address)), a.Family, st.Muted.Render(a.Origin))
		}
	}

	if err != nil {
		fmt.Fprintf(w, "  %s\n", st.Warning.Render("delivery failed: "+err.Error()))
	}
}

// jsonResult is the --json representation of one run.
type jsonResult struct {
	RunID     string        `json:"run_id,omitempty"`
	Kind      string        `json:"kind"`
	Location  string        `json:"location"`
	Count     int           `json:"count"`
	Addresses []jsonAddress `json:"addresses"`
	Error     string        `json:"error,omitempty"`
}

type jsonAddress struct {
	Address string `json:"address"`
	Family  string `json:"family"`
	Origin  string `json:"origin"`
}

func toJSONResult(source domain.SourceDescriptor, result *domain.ResultSet, err error) jsonResult {
	out := jsonResult{
		Kind:      source.Kind.String(),
		Location:  source.Location,
		Addresses: []jsonAddress{},
		Error:     errString(err),
	}
	if result == nil {
		return out
	}

	out.RunID = result.RunID
	out.Count = result.Len()
	for _, a := range result.Addresses {
		out.Addresses = append(out.Addresses, jsonAddress{
			Address: a.Address,
			Family:  a.Family.String(),
			Origin:  a.Origin,
		})
	}
	return out
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
