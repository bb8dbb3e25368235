package mongodb_test

import (
	"errors"
	"testing"

	"artdash/internal/auth/adapter/persistence/mongodb"

	"github.com/stretchr/testify/assert"
)

func TestDuplicateKeyField(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "email index",
			err:      errors.New(`E11000 duplicate key error collection: artdash.users index: email_1 dup key: { email: "a@b.com" }`),
			expected: "email",
		},
		{
			name:     "username index",
			err:      errors.New(`E11000 duplicate key error collection: artdash.users index: username_1 dup key: { username: "bob" }`),
			expected: "username",
		},
		{
			name:     "unknown index",
			err:      errors.New("E11000 duplicate key error collection: artdash.users index: phone_1"),
			expected: "field",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, mongodb.DuplicateKeyField(tc.err))
		})
	}
}
