package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncErrorListPrependKeepsNewestFirst(t *testing.T) {
	var list SyncErrorList

	list = list.Prepend(SyncError{Message: "first", OccurredAt: time.Now()})
	list = list.Prepend(SyncError{Message: "second", OccurredAt: time.Now()})

	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Message)
	assert.Equal(t, "first", list[1].Message)
}

func TestSyncErrorListPrependIsBounded(t *testing.T) {
	var list SyncErrorList
	for i := 0; i < MaxRecentSyncErrors+5; i++ {
		list = list.Prepend(SyncError{Message: fmt.Sprintf("error %d", i)})
	}

	require.Len(t, list, MaxRecentSyncErrors)
	// The oldest entries fall off the tail.
	assert.Equal(t, fmt.Sprintf("error %d", MaxRecentSyncErrors+4), list[0].Message)
	assert.Equal(t, "error 5", list[len(list)-1].Message)
}

func TestBrandListContains(t *testing.T) {
	brands := BrandList{"Bilstein", "KYB"}

	assert.True(t, brands.Contains("KYB"))
	assert.False(t, brands.Contains("kyb"))
	assert.False(t, BrandList(nil).Contains("Bilstein"))
}
