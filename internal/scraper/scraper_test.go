package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPostingID(t *testing.T) {
	withLink := Posting{Site: "IBSAL", Title: "Técnico de laboratorio", Link: "https://ibsal.es/convocatorias/ref-01/"}
	assert.Equal(t, "https://ibsal.es/convocatorias/ref-01", withLink.ID(), "trailing slash must not change identity")

	withoutLink := Posting{Site: "IMIB", Title: "Resolución de contratación"}
	assert.Len(t, withoutLink.ID(), 64, "link-less postings hash site+title")
	assert.Equal(t, withoutLink.ID(), Posting{Site: "IMIB", Title: "Resolución de contratación"}.ID())

	otherSite := Posting{Site: "IGTP", Title: "Resolución de contratación"}
	assert.NotEqual(t, withoutLink.ID(), otherSite.ID(), "same title on different sites stays distinct")
}

// The id must not move when mutable fields like the deadline text change,
// otherwise an already-reported posting would be reported again.
func TestPostingIDStableAcrossContentChanges(t *testing.T) {
	d1 := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)
	a := Posting{Site: "FIMABIS", Title: "Investigador postdoctoral", Link: "https://www.rfgi.es/conv/123", Deadline: &d1}
	b := Posting{Site: "FIMABIS", Title: "Investigador postdoctoral", Link: "https://www.rfgi.es/conv/123", Deadline: &d2}
	assert.Equal(t, a.ID(), b.ID())
}

func TestClean(t *testing.T) {
	assert.Equal(t, "Técnico superior de apoyo", Clean("  Técnico \n\t superior   de apoyo "))
	assert.Equal(t, "", Clean(" \n "))
}

func TestAbsURL(t *testing.T) {
	tests := []struct {
		page, href, want string
	}{
		{"https://ibsal.es/convocatorias-de-empleo/", "/convocatorias/ref-12", "https://ibsal.es/convocatorias/ref-12"},
		{"https://ibsal.es/convocatorias-de-empleo/", "https://otro.example/x", "https://otro.example/x"},
		{"https://www.rfgi.es/Convocatorias/Lista", "Detalle/55", "https://www.rfgi.es/Convocatorias/Detalle/55"},
		{"https://ibsal.es/", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AbsURL(tt.page, tt.href))
	}
}

func TestStatusOpen(t *testing.T) {
	assert.True(t, StatusOpen("Abierta"))
	assert.True(t, StatusOpen("PUBLICADA"))
	assert.True(t, StatusOpen("vigente"))
	assert.False(t, StatusOpen("Cerrada"))
	assert.False(t, StatusOpen(""))
}

func TestStatusClosed(t *testing.T) {
	assert.True(t, StatusClosed("Cerrada"))
	assert.True(t, StatusClosed("FINALIZADA"))
	assert.False(t, StatusClosed("Abierta"))
	assert.False(t, StatusClosed(""))
}

func TestIsGrantCall(t *testing.T) {
	assert.True(t, IsGrantCall("Convocatoria de ayudas 2025"))
	assert.True(t, IsGrantCall("Becas de formación"))
	assert.True(t, IsGrantCall("Ayudas para la intensificación de profesionales"))
	assert.False(t, IsGrantCall("Técnico de laboratorio de genómica"))
}

func TestDedupe(t *testing.T) {
	postings := []Posting{
		{Site: "IGTP", Title: "A", Link: "https://x/1"},
		{Site: "IGTP", Title: "B", Link: "https://x/2"},
		{Site: "IGTP", Title: "A otra vez", Link: "https://x/1/"},
	}
	unique := Dedupe(postings)
	assert.Len(t, unique, 2)
	assert.Equal(t, "A", unique[0].Title)
}
