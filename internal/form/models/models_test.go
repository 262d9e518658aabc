package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "certform/pkg/domain-errors"
)

func TestParseQuestionType(t *testing.T) {
	t.Run("accepts every declared literal", func(t *testing.T) {
		for _, literal := range []string{"TEXT", "TEXTAREA", "NUMBER", "DATE", "SINGLE_SELECT", "MULTI_SELECT"} {
			parsed, err := ParseQuestionType(literal)
			require.NoError(t, err)
			assert.True(t, parsed.Valid())
		}
	})

	t.Run("rejects unknown literal", func(t *testing.T) {
		_, err := ParseQuestionType("CHECKBOX")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestTemplateRefValidate(t *testing.T) {
	valid := TemplateRef{Family: FamilyCertificate, Name: "dairy-ehc", Version: 3}
	require.NoError(t, valid.Validate())

	t.Run("missing name", func(t *testing.T) {
		ref := valid
		ref.Name = ""
		assert.Error(t, ref.Validate())
	})

	t.Run("non-positive version", func(t *testing.T) {
		ref := valid
		ref.Version = 0
		assert.Error(t, ref.Validate())
	})

	t.Run("unknown family", func(t *testing.T) {
		ref := valid
		ref.Family = "INSPECTION"
		assert.Error(t, ref.Validate())
	})
}

func TestResponseItemIsEmpty(t *testing.T) {
	assert.True(t, ResponseItem{Answer: ""}.IsEmpty())
	assert.True(t, ResponseItem{Answer: "[]"}.IsEmpty())
	assert.False(t, ResponseItem{Answer: "0"}.IsEmpty())
	assert.False(t, ResponseItem{Answer: `["Red"]`}.IsEmpty())
}

func TestMultiSelectValues(t *testing.T) {
	t.Run("parses JSON string array", func(t *testing.T) {
		values, err := ResponseItem{Answer: `["Red","Green"]`}.MultiSelectValues()
		require.NoError(t, err)
		assert.Equal(t, []string{"Red", "Green"}, values)
	})

	t.Run("rejects non-array answer", func(t *testing.T) {
		_, err := ResponseItem{Answer: "Red"}.MultiSelectValues()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestHasOptionFields(t *testing.T) {
	t.Run("true when every option is bound", func(t *testing.T) {
		q := FormQuestion{Options: []QuestionOption{
			{Text: "Red", Field: "red_field"},
			{Text: "Blue", Field: "blue_field"},
		}}
		assert.True(t, q.HasOptionFields())
	})

	t.Run("false when any option is unbound", func(t *testing.T) {
		q := FormQuestion{Options: []QuestionOption{
			{Text: "Red", Field: "red_field"},
			{Text: "Blue"},
		}}
		assert.False(t, q.HasOptionFields())
	})

	t.Run("false without options", func(t *testing.T) {
		assert.False(t, FormQuestion{}.HasOptionFields())
	})
}

func TestFieldAt(t *testing.T) {
	q := MergedFormQuestion{FormQuestion: FormQuestion{
		Fields: []TemplateField{{Name: "page 1 foo"}, {Name: "page 2 foo"}},
	}}

	field, ok := q.FieldAt(1)
	require.True(t, ok)
	assert.Equal(t, "page 2 foo", field.Name)

	_, ok = q.FieldAt(2)
	assert.False(t, ok)
	_, ok = q.FieldAt(-1)
	assert.False(t, ok)
}
