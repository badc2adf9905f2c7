package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Pranavpatre/Delivery-Food-Summarizer/providers/apininjas"
	"github.com/Pranavpatre/Delivery-Food-Summarizer/providers/serpapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCalorieNumber(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  float64
		found bool
	}{
		{"plain", "A masala dosa has 250 calories per serving", 250, true},
		{"kcal", "around 520 kcal", 520, true},
		{"prefixed", "Calories: 380", 380, true},
		{"thousands", "1,200 calories total", 1200, true},
		{"range_midpoint", "400 - 500 kcal depending on portion", 450, true},
		{"no_number", "a delicious South Indian dish", 0, false},
		{"number_without_unit", "serves 2 people", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := extractCalorieNumber(tt.text)
			assert.Equal(t, tt.found, found)
			if tt.found {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestGetCalories_APINinjasFirst(t *testing.T) {
	ninjasSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("X-Api-Key"))
		w.Write([]byte(`[{"name":"chicken biryani","calories":490}]`))
	}))
	defer ninjasSrv.Close()

	svc := NewCalorieLookupService(nil,
		&apininjas.Client{APIKey: "k", BaseURL: ninjasSrv.URL}, nil, nil)

	result := svc.GetCalories(context.Background(), "Chicken Biryani", "Meghana Foods")

	require.NotNil(t, result.Calories)
	assert.Equal(t, 490.0, *result.Calories)
	assert.False(t, result.IsEstimated)
}

func TestGetCalories_FallsThroughToWebSearch(t *testing.T) {
	ninjasSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`)) // no match
	}))
	defer ninjasSrv.Close()

	serpSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("q"), "calories")
		w.Write([]byte(`{
			"answer_box": {"answer": "A plate has about 350 calories", "link": "https://example.com/nutrition"},
			"organic_results": []
		}`))
	}))
	defer serpSrv.Close()

	svc := NewCalorieLookupService(nil,
		&apininjas.Client{APIKey: "k", BaseURL: ninjasSrv.URL},
		&serpapi.Client{APIKey: "k", BaseURL: serpSrv.URL}, nil)

	result := svc.GetCalories(context.Background(), "Veg Fried Rice", "")

	require.NotNil(t, result.Calories)
	assert.Equal(t, 350.0, *result.Calories)
	assert.False(t, result.IsEstimated)
	assert.Equal(t, "https://example.com/nutrition", result.SourceURL)
}

func TestGetCalories_WebSearchUsesOrganicResults(t *testing.T) {
	serpSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"organic_results": [
				{"title": "History of the dosa", "snippet": "a beloved breakfast", "link": "https://example.com/a"},
				{"title": "Masala Dosa Nutrition", "snippet": "One dosa has 250 kcal", "link": "https://example.com/b"}
			]
		}`))
	}))
	defer serpSrv.Close()

	svc := NewCalorieLookupService(nil, nil, &serpapi.Client{APIKey: "k", BaseURL: serpSrv.URL}, nil)

	result := svc.GetCalories(context.Background(), "Masala Dosa", "")

	require.NotNil(t, result.Calories)
	assert.Equal(t, 250.0, *result.Calories)
	assert.Equal(t, "https://example.com/b", result.SourceURL)
}

func TestGetCalories_LLMEstimateIsFlagged(t *testing.T) {
	gen := &fakeTextGen{response: "320"}
	svc := NewCalorieLookupService(nil, nil, nil, gen)

	result := svc.GetCalories(context.Background(), "Secret House Special", "Truffles")

	require.NotNil(t, result.Calories)
	assert.Equal(t, 320.0, *result.Calories)
	assert.True(t, result.IsEstimated)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Secret House Special")
	assert.Contains(t, gen.prompts[0], "from Truffles")
}

func TestEstimateWithLLM_SanityWindow(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantNil  bool
	}{
		{"reasonable", "450", false},
		{"too_low", "12", true},
		{"too_high", "25000", true},
		{"no_number", "I cannot estimate that", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCalorieLookupService(nil, nil, nil, &fakeTextGen{response: tt.response})
			result := svc.estimateWithLLM(context.Background(), "Mystery Dish", "")
			if tt.wantNil {
				assert.Nil(t, result)
			} else {
				require.NotNil(t, result)
				assert.Equal(t, 450.0, *result.Calories)
				assert.True(t, result.IsEstimated)
			}
		})
	}
}

func TestGetCalories_NothingResolves(t *testing.T) {
	svc := NewCalorieLookupService(nil, nil, nil, nil)

	result := svc.GetCalories(context.Background(), "Unknown Dish", "")

	assert.Nil(t, result.Calories)
	assert.True(t, result.IsEstimated)
}
