package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/five82/plantel/internal/app"
	"github.com/five82/plantel/internal/club"
	"github.com/five82/plantel/internal/notify"
	"github.com/five82/plantel/internal/state"
)

// Globals are the flags shared by every command.
type Globals struct {
	ConfigPath string
	PrefsPath  string
}

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	warnMark = color.New(color.FgYellow).Sprint("!")
	errMark  = color.New(color.FgRed).Sprint("✗")
)

// printer writes store notifications to w, one per line.
func printer(w io.Writer) notify.Notifier {
	return notify.Func(func(message string, kind notify.Kind) {
		mark := okMark
		switch kind {
		case notify.Warning:
			mark = warnMark
		case notify.Error:
			mark = errMark
		}
		fmt.Fprintf(w, "%s %s\n", mark, message)
	})
}

// row is one record flattened for printing.
type row struct {
	id     string
	label  string
	values []string
	state  state.SyncState
	op     state.Op
	err    error
}

// resource erases the record type of one store so commands can address it
// by name.
type resource struct {
	name    string
	title   string
	columns []club.Column
	list    func(ctx context.Context) ([]row, error)
	get     func(id string) (row, bool)
	remove  func(id string) error
	wait    func()
}

func bind[T state.Record](s *state.Store[T], schema club.Schema[T]) resource {
	flatten := func(e state.Entry[T]) row {
		label := e.ID
		if schema.Label != nil {
			if l := schema.Label(e.Fields); l != "" {
				label = l
			}
		}
		return row{
			id:     e.ID,
			label:  label,
			values: schema.Values(e.Fields),
			state:  e.State,
			op:     e.Op,
			err:    e.Err,
		}
	}
	return resource{
		name:    schema.Resource,
		title:   schema.Title,
		columns: schema.Columns,
		list: func(ctx context.Context) ([]row, error) {
			entries, err := s.List(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]row, 0, len(entries))
			for _, e := range entries {
				out = append(out, flatten(e))
			}
			return out, nil
		},
		get: func(id string) (row, bool) {
			e, ok := s.Get(id)
			if !ok {
				return row{}, false
			}
			return flatten(e), true
		},
		remove: s.Remove,
		wait:   s.Wait,
	}
}

// lookup finds the store for a resource name.
func lookup(s app.Stores, name string) (resource, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case club.ResourceInventory:
		return bind(s.Inventory, club.Inventory), nil
	case club.ResourceAthletes:
		return bind(s.Athletes, club.Athletes), nil
	case club.ResourceStaff:
		return bind(s.Staff, club.Staff), nil
	case club.ResourceAnalyses:
		return bind(s.Analyses, club.Analyses), nil
	default:
		return resource{}, fmt.Errorf("unknown resource %q (want one of: %s)", name, strings.Join(club.Resources, ", "))
	}
}

// setup loads the environment for a one-shot command.
func setup(g *Globals) (*app.Env, error) {
	if g == nil {
		g = &Globals{}
	}
	return app.Setup(g.ConfigPath)
}
