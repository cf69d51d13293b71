package app

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/common/expfmt"

	"github.com/specialistvlad/eligo/internal/ctxlog"
	"github.com/specialistvlad/eligo/internal/doc"
	"github.com/specialistvlad/eligo/internal/eli"
)

// target selects a library, or one element of it when element is set.
type target struct {
	library string
	element string
}

func parseTarget(s string) target {
	lib, elem, _ := strings.Cut(s, ".")
	return target{library: lib, element: elem}
}

// elementFilter narrows a catalog to the elements of one name.
type elementFilter struct {
	eli.Catalog
	name string
}

func (f elementFilter) Elements(lib string) []*eli.Info {
	return slices.DeleteFunc(f.Catalog.Elements(lib), func(i *eli.Info) bool { return i.Name != f.name })
}

// Run loads every reachable library and writes the documentation of the
// configured targets.
func (a *App) Run(ctx context.Context) error {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Run method started.")

	loaded, err := a.LoadLibraries(ctx)
	if err != nil {
		return err
	}

	targets := make([]target, 0, len(a.config.Targets))
	for _, t := range a.config.Targets {
		tg := parseTarget(t)
		if !slices.Contains(loaded, tg.library) {
			return fmt.Errorf("library %q not found", tg.library)
		}
		targets = append(targets, tg)
	}
	if len(targets) == 0 {
		for _, lib := range loaded {
			targets = append(targets, target{library: lib})
		}
	}

	if err := a.render(targets); err != nil {
		return fmt.Errorf("failed to render documentation: %w", err)
	}
	if a.config.Metrics {
		if err := a.writeMetrics(a.logW); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	logger.Debug("App.Run method finished.", "targets", len(targets))
	return nil
}

func (a *App) catalogs(t target) []eli.Catalog {
	cats := a.factory.Families().Catalogs()
	if t.element == "" {
		return cats
	}
	for i, c := range cats {
		cats[i] = elementFilter{Catalog: c, name: t.element}
	}
	return cats
}

func (a *App) render(targets []target) error {
	switch a.config.Format {
	case FormatHCL:
		d := doc.NewHCLDocument()
		for _, t := range targets {
			doc.WriteLibrary(d, t.library, a.catalogs(t))
		}
		_, err := d.WriteTo(a.outW)
		return err
	case FormatYAML:
		d := doc.NewYAMLDocument()
		for _, t := range targets {
			doc.WriteLibrary(d, t.library, a.catalogs(t))
		}
		return d.Encode(a.outW)
	default:
		return a.renderText(targets)
	}
}

func (a *App) renderText(targets []target) error {
	r := lipgloss.NewRenderer(a.outW)
	title := r.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	section := r.NewStyle().Foreground(lipgloss.Color("245"))
	rule := strings.Repeat("=", 80)

	var b strings.Builder
	for _, t := range targets {
		fmt.Fprintf(&b, "%s\n%s\n", rule, title.Render("ELI Library: "+t.library))
		for _, c := range a.catalogs(t) {
			infos := c.Elements(t.library)
			if len(infos) == 0 {
				continue
			}
			fmt.Fprintf(&b, "%s\n", section.Render(fmt.Sprintf("  %ss (%d total)", c.Name(), len(infos))))
			for _, info := range infos {
				b.WriteString(info.String())
			}
		}
	}
	_, err := io.WriteString(a.outW, b.String())
	return err
}

// writeMetrics dumps the factory's collectors in the Prometheus text format.
func (a *App) writeMetrics(w io.Writer) error {
	families, err := a.metrics.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
