package console_test

import (
	"bytes"
	"log"
	"strings"
	"testing"

	discovery "github.com/BrianJCal99/project-bunnings/internal/discovery/domain"
	"github.com/BrianJCal99/project-bunnings/internal/infrastructure/console"
	mapdomain "github.com/BrianJCal99/project-bunnings/internal/mapping/domain"
)

func TestReporter_QuietSkipsPageEvents(t *testing.T) {
	var buf bytes.Buffer
	r := console.NewReporter(log.New(&buf, "", 0), false)

	r.Report(discovery.Event{Kind: discovery.EventPageFetched, Key: discovery.SearchKey{Region: "SA", SubRegion: "ADELAIDE"}, Page: 1, Count: 2})
	if buf.Len() != 0 {
		t.Fatalf("quiet reporter logged page event: %q", buf.String())
	}

	r.Report(discovery.Event{Kind: discovery.EventKeyFailed, Key: discovery.SearchKey{Region: "SA", SubRegion: "ADELAIDE"}, Page: 2, Count: 1, Reason: "status 503"})
	if !strings.Contains(buf.String(), "SA/ADELAIDE") || !strings.Contains(buf.String(), "status 503") {
		t.Fatalf("failure line = %q", buf.String())
	}
}

func TestReporter_Warn(t *testing.T) {
	var buf bytes.Buffer
	r := console.NewReporter(log.New(&buf, "", 0), true)
	r.Warn(mapdomain.JoinWarning{Kind: mapdomain.WarnDuplicatePolygonName, Name: "GLENELG", Count: 2})
	if !strings.Contains(buf.String(), `"GLENELG" appears 2 times`) {
		t.Fatalf("warning line = %q", buf.String())
	}
}
