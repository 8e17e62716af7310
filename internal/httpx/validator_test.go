package httpx

import (
	"strings"
	"testing"
)

type testBookInput struct {
	Title         string  `validate:"notblank,max=200"`
	Author        string  `validate:"notblank,max=100"`
	PublishedYear int     `validate:"gte=1450,lte=2025"`
	Price         float64 `validate:"gt=0"`
	Email         string  `validate:"omitempty,email"`
}

func TestValidateStruct_ValidInput(t *testing.T) {
	s := testBookInput{Title: "Dune", Author: "Frank Herbert", PublishedYear: 1965, Price: 9.99}

	if errs := ValidateStruct(s); len(errs) != 0 {
		t.Errorf("Expected no validation errors, got %v", errs)
	}
}

func TestValidateStruct_Blank(t *testing.T) {
	s := testBookInput{Title: "   ", Author: "", PublishedYear: 1965, Price: 1}

	errs := ValidateStruct(s)
	fields := map[string]string{}
	for _, e := range errs {
		fields[e.Field] = e.Message
	}
	if !strings.Contains(fields["title"], "required") {
		t.Errorf("Expected title required error, got %v", errs)
	}
	if !strings.Contains(fields["author"], "required") {
		t.Errorf("Expected author required error, got %v", errs)
	}
}

func TestValidateStruct_Ranges(t *testing.T) {
	testCases := []struct {
		name  string
		input testBookInput
		field string
	}{
		{"year too early", testBookInput{Title: "t", Author: "a", PublishedYear: 1200, Price: 1}, "publishedYear"},
		{"year too late", testBookInput{Title: "t", Author: "a", PublishedYear: 3000, Price: 1}, "publishedYear"},
		{"zero price", testBookInput{Title: "t", Author: "a", PublishedYear: 2000, Price: 0}, "price"},
		{"title too long", testBookInput{Title: strings.Repeat("x", 201), Author: "a", PublishedYear: 2000, Price: 1}, "title"},
		{"bad email", testBookInput{Title: "t", Author: "a", PublishedYear: 2000, Price: 1, Email: "nope"}, "email"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			errs := ValidateStruct(tc.input)
			found := false
			for _, e := range errs {
				if e.Field == tc.field {
					found = true
				}
			}
			if !found {
				t.Errorf("Expected error on %s, got %v", tc.field, errs)
			}
		})
	}
}
