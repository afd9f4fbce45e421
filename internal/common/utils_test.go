package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasAny(t *testing.T) {
	assert.True(t, HasAny("locality.123", "locality", "postcode"))
	assert.False(t, HasAny("place.9", "locality", "postcode"))
	assert.False(t, HasAny("anything"))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Northcote, VICTORIA, Australia", "victoria"))
	assert.True(t, ContainsFold("northcote, victoria", "Victoria"))
	assert.False(t, ContainsFold("Sydney, New South Wales", "victoria"))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", FirstNonEmpty("", "  ", "b", "c"))
	assert.Empty(t, FirstNonEmpty("", " "))
}
