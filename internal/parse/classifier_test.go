package parse

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	cls := NewClassifier(DefaultMinusChars, DefaultCurrencySuffix)

	cases := []struct {
		name string
		in   string
		want Match
	}{
		{"empty", "", Match{Class: ClassDiscard}},
		{"equals artifact", "= 1 250р", Match{Class: ClassDiscard}},
		{"bare total", "1 250р", Match{Class: ClassDiscard}},
		{"bare negative total", "-1 250", Match{Class: ClassDiscard}},
		{"bare total em dash", "—250р", Match{Class: ClassDiscard}},
		{
			"income with comment",
			"+50 000р зарплата",
			Match{Class: ClassIncome, AmountRaw: "50 000", Comment: "зарплата"},
		},
		{
			"income without suffix",
			"+250 возврат",
			Match{Class: ClassIncome, AmountRaw: "250 ", Comment: "возврат"},
		},
		{
			"expense single tag",
			"-250р хлеб [еда]",
			Match{Class: ClassExpense, AmountRaw: "250", Comment: "хлеб", Tags: []string{"еда"}},
		},
		{
			"expense two tags",
			"-300р такси [еда][проезд]",
			Match{Class: ClassExpense, AmountRaw: "300", Comment: "такси", Tags: []string{"еда", "проезд"}},
		},
		{
			"expense unicode minus",
			"−500р лекарства [лекарства]",
			Match{Class: ClassExpense, AmountRaw: "500", Comment: "лекарства", Tags: []string{"лекарства"}},
		},
		{
			"expense en dash no tags",
			"–120,50р кофе",
			Match{Class: ClassExpense, AmountRaw: "120,50", Comment: "кофе"},
		},
		{"unrecognized words", "купил хлеб", Match{Class: ClassUnrecognized}},
		{"unrecognized suffix first", "хлеб -250р", Match{Class: ClassUnrecognized}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := cls.Classify(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Classify(%q) = %+v, expected %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestClassifyCustomConfig(t *testing.T) {
	// Tilde as the only minus char, dollar as currency suffix.
	cls := NewClassifier("~", "$")

	if m := cls.Classify("~250$ bread [food]"); m.Class != ClassExpense {
		t.Fatalf("expected expense, got %+v", m)
	}
	// The default hyphen is no longer an expense marker.
	if m := cls.Classify("-250$ bread [food]"); m.Class != ClassUnrecognized {
		t.Fatalf("expected unrecognized, got %+v", m)
	}
}
