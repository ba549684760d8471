package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRecommendation(t *testing.T) {
	served := RecommendationsServed.WithLabelValues("Shahdag National Park", "9")
	family := AnswersCoerced.WithLabelValues("familySize")
	trips := AnswersCoerced.WithLabelValues("tripsPerYear")

	beforeServed := testutil.ToFloat64(served)
	beforeFamily := testutil.ToFloat64(family)
	beforeTrips := testutil.ToFloat64(trips)

	RecordRecommendation("Shahdag National Park", 9, []string{"familySize", "tripsPerYear"})

	assert.Equal(t, beforeServed+1, testutil.ToFloat64(served))
	assert.Equal(t, beforeFamily+1, testutil.ToFloat64(family))
	assert.Equal(t, beforeTrips+1, testutil.ToFloat64(trips))
}

func TestRecordRequest(t *testing.T) {
	counter := HTTPRequests.WithLabelValues("/api/recommend", "400")
	before := testutil.ToFloat64(counter)

	RecordRequest("/api/recommend", 400)
	RecordRequest("/api/recommend", 400)

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}
