package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldAndLocalNames(t *testing.T) {
	assert.Equal(t, "mTextView", FieldName("text"))
	assert.Equal(t, "mTitleView", FieldName("titleView"))
	assert.Equal(t, "mTitleView", FieldName("TitleView"))
	assert.Equal(t, "textView", LocalName("text"))
	assert.Equal(t, "titleView", LocalName("titleView"))
}

func TestGeneratorCollisions(t *testing.T) {
	g := NewGenerator("mBinding", "mTextView")

	assert.Equal(t, "mTextView2", g.Field("text"))
	// text 与 textView 归一后相同，计数继续递增
	assert.Equal(t, "mTextView3", g.Field("textView"))
	assert.Equal(t, "mImageView", g.Field("image"))
	assert.True(t, g.Taken("mImageView"))

	locals := NewGenerator("binding")
	assert.Equal(t, "textView", locals.Local("text"))
	assert.Equal(t, "textView2", locals.Local("text"))
}
