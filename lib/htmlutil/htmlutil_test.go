package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{in: "  SNIGDHA \n", expected: "SNIGDHA"},
		{in: "\t৳ 1,245\n\n", expected: "৳ 1,245"},
		{in: "05 Jun, 07:00\n   pm", expected: "05 Jun, 07:00 pm"},
		{in: "BANALATA\u0000 EXPRESS", expected: "BANALATA EXPRESS"},
		{in: "", expected: ""},
	}

	for _, test := range cases {
		require.Equal(t, test.expected, CleanText(test.in))
	}
}

func TestText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<div class="trip">
			<h2> BANALATA EXPRESS <span>(791)</span> </h2>
			<h2>ignored</h2>
		</div>
	`))
	if err != nil {
		t.Fatal(err)
	}

	text, ok := Text(doc.Find("h2"))
	require.True(t, ok)
	require.Equal(t, "BANALATA EXPRESS (791)", text)

	_, ok = Text(doc.Find("h3"))
	require.False(t, ok)
}
