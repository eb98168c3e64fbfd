package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageBounds(t *testing.T) {
	testCases := []struct {
		description           string
		total, page, pageSize int
		expectedStart         int
		expectedEnd           int
		expectedPage          int64
		expectedNumberOfPages int64
	}{
		{"First page of a long list", 25, 1, 10, 0, 10, 1, 3},
		{"Last, partial page", 25, 3, 10, 20, 25, 3, 3},
		{"Page past the end falls back to the last page", 25, 9, 10, 20, 25, 3, 3},
		{"Non positive page falls back to the first page", 25, 0, 10, 0, 10, 1, 3},
		{"Empty collection still has one page", 0, 1, 10, 0, 0, 1, 1},
		{"Invalid page size uses the default", 12, 2, 0, 10, 12, 2, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			start, end, paging := PageBounds(tc.total, tc.page, tc.pageSize)

			assert.Equal(t, tc.expectedStart, start)
			assert.Equal(t, tc.expectedEnd, end)
			assert.Equal(t, tc.expectedPage, paging.Page)
			assert.Equal(t, tc.expectedNumberOfPages, paging.Pages)
			assert.Equal(t, int64(tc.total), paging.Total)
		})
	}
}
