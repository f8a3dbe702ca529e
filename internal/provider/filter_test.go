package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const filterTestEvent = `{"action":"closed","repository":{"name":"app","owner":{"login":"sisu"}},"pull_request":{"merged":true}}`

func TestFilterMatch(t *testing.T) {
	for _, tc := range []struct {
		query string
		match bool
	}{
		{query: `.repository.name == "app"`, match: true},
		{query: `.repository.name == "other"`, match: false},
		{query: `.pull_request.merged`, match: true},
		{query: `.repository.owner.login == "sisu" and .action == "closed"`, match: true},
	} {
		t.Run(tc.query, func(t *testing.T) {
			f, err := NewFilter(tc.query)
			require.NoError(t, err)

			match, err := f.Match(context.Background(), []byte(filterTestEvent))
			require.NoError(t, err)
			assert.Equal(t, tc.match, match)
		})
	}
}

func TestFilterErrors(t *testing.T) {
	for _, tc := range []struct {
		name  string
		query string
		json  string
	}{
		{name: "non_bool_result", query: `.repository.name`, json: filterTestEvent},
		{name: "multiple_results", query: `.[]`, json: `{"a":true,"b":false}`},
		{name: "no_result", query: `empty`, json: filterTestEvent},
		{name: "query_error", query: `.action | tonumber`, json: filterTestEvent},
		{name: "empty_json", query: `true`, json: ``},
		{name: "invalid_json", query: `true`, json: `{`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f, err := NewFilter(tc.query)
			require.NoError(t, err)

			_, err = f.Match(context.Background(), []byte(tc.json))
			require.Error(t, err)
		})
	}
}

func TestNewFilterInvalidQuery(t *testing.T) {
	_, err := NewFilter(`.repository.name ==`)
	require.Error(t, err)
}
