package layout

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"databinding-hunter/internal/errs"
)

func mustInfo(t *testing.T, name, xml string) *Info {
	t.Helper()
	root, err := ParseTag(strings.NewReader(xml))
	require.NoError(t, err)
	return Build(name, root)
}

func TestRegistry_Lookup(t *testing.T) {
	main := mustInfo(t, "activity_main", `<LinearLayout><TextView android:id="@+id/title" /></LinearLayout>`)
	demo := mustInfo(t, "demo_01", `<FrameLayout><Button android:id="@+id/ok" /></FrameLayout>`)
	r := NewRegistry(main, demo)
	assert.Equal(t, 2, r.Len())

	testCases := []struct {
		name        string
		bindingType string
		want        *Info
		wantErr     error
	}{
		{"simple name", "ActivityMainBinding", main, nil},
		{"qualified name", "com.example.databinding.ActivityMainBinding", main, nil},
		{"digits registered by class name", "Demo01Binding", demo, nil},
		{"no binding suffix", "ActivityMain", nil, errs.ErrAmbiguousRebind},
		{"unknown layout", "SettingsBinding", nil, errs.ErrUnresolvedLayout},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			info, err := r.Lookup(tt.bindingType)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, info)
				return
			}
			require.NoError(t, err)
			assert.Same(t, tt.want, info)
		})
	}
	assert.True(t, r.Has("ActivityMainBinding"))
	assert.False(t, r.Has("SettingsBinding"))
}

func TestRegistry_UnresolvedLayoutMessage(t *testing.T) {
	r := NewRegistry()
	_, err := r.Lookup("ItemDemo01Binding")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item_demo_0_1.xml")
}

// 同名布局的不同配置合并 id
func TestRegistry_MergeQualifiers(t *testing.T) {
	port := mustInfo(t, "activity_main", `<LinearLayout><TextView android:id="@+id/title" /></LinearLayout>`)
	land := mustInfo(t, "activity_main", `<LinearLayout><Button android:id="@+id/title" /><ImageView android:id="@+id/side" /></LinearLayout>`)
	r := NewRegistry(port)
	_, err := r.Lookup("ActivityMainBinding")
	require.NoError(t, err)
	r.Register(land)

	info, err := r.Lookup("ActivityMainBinding")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, "TextView", info.ViewType("title"))
	assert.Equal(t, "ImageView", info.ViewType("side"))
}

func TestRegistry_ConcurrentLookup(t *testing.T) {
	r := NewRegistry(mustInfo(t, "activity_main", `<LinearLayout><TextView android:id="@+id/title" /></LinearLayout>`))
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			info, err := r.Lookup("ActivityMainBinding")
			assert.NoError(t, err)
			assert.Equal(t, "title", info.ID("title"))
		}()
	}
	wg.Wait()

	// 每个绑定类型只解析一次
	stats := r.LookupStats()
	assert.Equal(t, 1, stats.Misses)
	assert.Equal(t, 15, stats.Hits)
}
