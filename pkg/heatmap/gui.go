package heatmap

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mhelland/seqheat/pkg/canvas"
	"github.com/mhelland/seqheat/pkg/database"
	seqerrors "github.com/mhelland/seqheat/pkg/errors"
	"github.com/mhelland/seqheat/pkg/experiment"
)

// GUI selects the interactive front-end variant.
type GUI int

const (
	// GUICLI renders a PNG and answers lookups on a terminal prompt.
	// Activation blocks until the session ends.
	GUICLI GUI = iota
	// GUITUI runs a full-screen terminal view with keyboard zoom, pan and
	// selection. Activation blocks until the session ends.
	GUITUI
	// GUIWeb serves the plot on a local web page. Activation returns
	// immediately; the page stays up until the controller is shut down.
	GUIWeb
)

var guiNames = map[GUI]string{
	GUICLI: "cli",
	GUITUI: "tui",
	GUIWeb: "web",
}

func (g GUI) String() string {
	if name, ok := guiNames[g]; ok {
		return name
	}
	return "unknown"
}

// GUINames returns the recognized variant names in display order.
func GUINames() []string {
	return []string{"cli", "tui", "web"}
}

// ParseGUI resolves a variant name, failing with the list of valid names.
func ParseGUI(name string) (GUI, error) {
	switch strings.ToLower(name) {
	case "cli", "":
		return GUICLI, nil
	case "tui":
		return GUITUI, nil
	case "web":
		return GUIWeb, nil
	}
	return 0, seqerrors.New(seqerrors.ErrCodeInvalidGUI,
		"unknown gui %q (valid: %s)", name, strings.Join(GUINames(), ", "))
}

// Controller is an interactive session around a rendered plot. The surface
// accessors are valid as soon as the controller is constructed, before
// activation, so color bars can be overlaid first.
type Controller interface {
	// Axes returns the main grid surface.
	Axes() Surface
	// XBar returns the sample color-bar strip.
	XBar() Surface
	// YBar returns the feature color-bar strip.
	YBar() Surface

	// Databases returns the attached annotation databases.
	Databases() []database.Database
	// AnnotationDB returns the database new annotations are written to,
	// or nil when none of the attached databases accepts them.
	AnnotationDB() database.Database

	// Activate binds interaction and displays the plot. The cli and tui
	// variants block until the session ends; web returns immediately.
	Activate(ctx context.Context) error
}

// session holds the state shared by all controller variants.
type session struct {
	exp    *experiment.Experiment
	fig    *canvas.Figure
	dbs    []database.Database
	annDB  database.Database
	logger *log.Logger
}

func newSession(e *experiment.Experiment, fig *canvas.Figure, logger *log.Logger) *session {
	if logger == nil {
		logger = log.Default()
	}
	return &session{exp: e, fig: fig, logger: logger}
}

// attach adds databases to the session. The first annotatable one becomes
// the annotation target; later annotatable ones are kept for lookups only.
func (s *session) attach(dbs []database.Database) {
	for _, db := range dbs {
		s.dbs = append(s.dbs, db)
		if !db.Annotatable() {
			continue
		}
		if s.annDB == nil {
			s.annDB = db
		} else {
			s.logger.Warn("annotations already go to another database",
				"database", db.DatabaseName(), "active", s.annDB.DatabaseName())
		}
	}
}

func (s *session) Axes() Surface { return s.fig.Axes() }
func (s *session) XBar() Surface { return s.fig.XBar() }
func (s *session) YBar() Surface { return s.fig.YBar() }

func (s *session) Databases() []database.Database { return s.dbs }

func (s *session) AnnotationDB() database.Database { return s.annDB }

// lookupAnnotations queries every attached database for a feature and
// merges the results, logging per-database failures without aborting.
func (s *session) lookupAnnotations(ctx context.Context, featureID string) []database.Annotation {
	var out []database.Annotation
	for _, db := range s.dbs {
		anns, err := db.Annotations(ctx, featureID)
		if err != nil {
			s.logger.Warn("annotation lookup failed",
				"database", db.DatabaseName(), "feature", featureID, "error", err)
			continue
		}
		out = append(out, anns...)
	}
	return out
}

// featureID returns the identifier of the feature at row, falling back to
// the row number when there is no id column.
func (s *session) featureID(row int) string {
	ids, err := s.exp.FeatureField(experiment.IDField)
	if err == nil && row >= 0 && row < len(ids) {
		return stringify(ids[row])
	}
	return stringify(row)
}

// sampleID returns the identifier of the sample at col.
func (s *session) sampleID(col int) string {
	ids, err := s.exp.SampleField(experiment.IDField)
	if err == nil && col >= 0 && col < len(ids) {
		return stringify(ids[col])
	}
	return stringify(col)
}
