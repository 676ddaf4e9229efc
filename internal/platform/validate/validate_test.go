// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gallery/internal/platform/apperr"
	"github.com/taibuivan/gallery/internal/platform/validate"
)

/*
TestValidator_Numeric checks Positive and Unit bounds.
*/
func TestValidator_Numeric(t *testing.T) {
	tests := []struct {
		name    string
		run     func(v *validate.Validator)
		isValid bool
	}{
		{"positive_ok", func(v *validate.Validator) { v.Positive("art_id", 1) }, true},
		{"positive_zero", func(v *validate.Validator) { v.Positive("art_id", 0) }, false},
		{"positive_negative", func(v *validate.Validator) { v.Positive("art_id", -5) }, false},
		{"unit_lower_bound", func(v *validate.Validator) { v.Unit("porn", 0) }, true},
		{"unit_upper_bound", func(v *validate.Validator) { v.Unit("porn", 1) }, true},
		{"unit_above", func(v *validate.Validator) { v.Unit("porn", 1.01) }, false},
		{"unit_below", func(v *validate.Validator) { v.Unit("porn", -0.1) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			tt.run(v)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Positive("art_id", 0).                            // Fails
		Unit("images[0].nsfw.porn", 2).                   // Fails
		Custom("upload_timestamp", true, "Must be >= 0"). // Fails
		Custom("title", false, "never").                  // Passes
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}
