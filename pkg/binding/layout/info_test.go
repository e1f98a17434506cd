package layout

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mainLayout = `<?xml version="1.0" encoding="utf-8"?>
<layout xmlns:android="http://schemas.android.com/apk/res/android">
    <data>
        <variable name="user" type="com.example.User" />
    </data>
    <LinearLayout
        android:layout_width="match_parent"
        android:layout_height="match_parent">
        <TextView
            android:id="@+id/text_view"
            android:text="@{user.name}" />
        <com.example.widget.Avatar android:id="@+id/avatar" />
        <include android:id="@+id/toolbar" layout="@layout/toolbar" />
        <view class="android.widget.ImageView" android:id="@+id/cover" />
        <fragment android:id="@+id/map" android:name="com.example.Map" />
        <FrameLayout>
            <Button android:id="@id/demo_0_1" />
        </FrameLayout>
        <EditText android:id="@android:id/input" />
        <ListView android:id="@+android:id/list" />
    </LinearLayout>
</layout>
`

func TestParseTag(t *testing.T) {
	root, err := ParseTag(strings.NewReader(mainLayout))
	require.NoError(t, err)
	assert.Equal(t, "layout", root.Name)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "data", root.Children[0].Name)

	linear := root.Children[1]
	assert.Equal(t, "LinearLayout", linear.Name)
	width, ok := linear.Attr("android:layout_width")
	assert.True(t, ok)
	assert.Equal(t, "match_parent", width)
	_, ok = linear.Attr("android:id")
	assert.False(t, ok)
	assert.Len(t, linear.Children, 8)
}

func TestParseTag_Invalid(t *testing.T) {
	_, err := ParseTag(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyLayout)

	_, err = ParseTag(strings.NewReader("<LinearLayout><TextView></LinearLayout>"))
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	root, err := ParseTag(strings.NewReader(mainLayout))
	require.NoError(t, err)
	info := Build("activity_main", root)

	assert.Equal(t, "activity_main", info.ResourceName())
	assert.Equal(t, "ActivityMainBinding", info.BindingType())

	testCases := []struct {
		ref      string
		id       string
		viewType string
		pkg      string
	}{
		{"textView", "text_view", "TextView", ""},
		{"avatar", "avatar", "com.example.widget.Avatar", ""},
		{"toolbar", "toolbar", "View", ""},
		{"cover", "cover", "android.widget.ImageView", ""},
		{"map", "map", "View", ""},
		{"demo01", "demo_0_1", "Button", ""},
		{"input", "input", "EditText", "android"},
		{"list", "list", "ListView", "android"},
	}
	for _, tt := range testCases {
		t.Run(tt.ref, func(t *testing.T) {
			v, ok := info.Lookup(tt.ref)
			require.True(t, ok)
			assert.Equal(t, tt.id, v.ID)
			assert.Equal(t, tt.viewType, v.Type)
			assert.Equal(t, tt.pkg, v.Package)
			assert.Equal(t, tt.id, info.ID(tt.ref))
			assert.Equal(t, tt.viewType, info.ViewType(tt.ref))
		})
	}
	assert.Equal(t, len(testCases), info.Len())
	assert.Equal(t, "", info.ID("missing"))
	assert.Equal(t, "", info.ViewType("missing"))
	assert.Equal(t, []string{"avatar", "cover", "demo01", "input", "list", "map", "textView", "toolbar"}, info.Refs())
}

// 重复 id 以后出现的为准
func TestBuild_DuplicateIDLastWins(t *testing.T) {
	root, err := ParseTag(strings.NewReader(`<FrameLayout xmlns:android="x">
	<TextView android:id="@+id/title" />
	<Button android:id="@+id/title" />
</FrameLayout>`))
	require.NoError(t, err)
	info := Build("item", root)
	assert.Equal(t, 1, info.Len())
	assert.Equal(t, "Button", info.ViewType("title"))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout", "activity_main.xml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(mainLayout), 0o644))

	info, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "activity_main", info.ResourceName())
	assert.Equal(t, "TextView", info.ViewType("textView"))

	_, err = LoadFile(filepath.Join(dir, "missing.xml"))
	assert.Error(t, err)
}
