// Command analyze runs the character pipeline over a text file and prints
// the resulting profiles as JSON. With -db it also persists them to a
// SQLite story store and can report similar characters from earlier runs.
package main

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"

	"github.com/fnone/blogtalk/internal/store"
	"github.com/fnone/blogtalk/pkg/scanner/narrative"
	"github.com/fnone/blogtalk/pkg/scanner/pipeline"
)

func main() {
	var (
		in          = flag.String("in", "", "path to the text file to analyze")
		title       = flag.String("title", "", "document title (defaults to file name)")
		docID       = flag.String("id", "", "document id (defaults to file name)")
		sensitivity = flag.String("sensitivity", os.Getenv("BLOGTALK_SENSITIVITY"), "narrative gate: low, medium or high")
		dbPath      = flag.String("db", os.Getenv("BLOGTALK_DB"), "sqlite database path; empty disables persistence")
		similar     = flag.Int("similar", 0, "report the N most similar stored characters per profile (needs -db)")
	)
	flag.Parse()

	if *in == "" {
		log.Fatal("no input file, use -in")
	}

	body, err := os.ReadFile(*in)
	if err != nil {
		log.Fatal("failed to read input", "path", *in, "error", err)
	}

	base := strings.TrimSuffix(filepath.Base(*in), filepath.Ext(*in))
	if *title == "" {
		*title = base
	}
	if *docID == "" {
		*docID = base
	}

	sens := narrative.ParseSensitivity(*sensitivity)
	analyzer := pipeline.New(pipeline.WithSensitivity(sens))

	doc := pipeline.Document{ID: *docID, Title: *title, Body: string(body)}
	profiles, err := analyzer.Analyze(doc)
	if err != nil {
		log.Fatal("analysis failed", "error", err)
	}

	log.Info("analysis complete", "document", doc.ID, "sensitivity", sens, "characters", len(profiles))
	if len(profiles) == 0 {
		log.Info("no narrative characters found, nothing to do")
		return
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(profiles); err != nil {
		log.Fatal("failed to encode profiles", "error", err)
	}

	if *dbPath == "" {
		return
	}

	st, err := store.NewSQLiteStoreWithDSN(*dbPath)
	if err != nil {
		log.Fatal("failed to open store", "path", *dbPath, "error", err)
	}
	defer st.Close()

	if *similar > 0 {
		// Query before saving so the document's own characters don't
		// dominate their own neighbor lists.
		for _, p := range profiles {
			refs, err := st.SimilarProfiles(p, *similar)
			if err != nil {
				log.Error("similarity query failed", "name", p.Name, "error", err)
				continue
			}
			for _, ref := range refs {
				log.Info("similar character", "name", p.Name, "match", ref.Name, "document", ref.DocumentID, "distance", ref.Distance)
			}
		}
	}

	if err := st.SaveProfiles(doc.ID, profiles); err != nil {
		log.Fatal("failed to save profiles", "error", err)
	}
	log.Info("profiles saved", "document", doc.ID, "count", len(profiles))
}
