package planload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEncodings(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    []Encoding
		wantErr bool
	}{
		{name: "empty uses default chain", input: nil, want: DefaultEncodings},
		{name: "explicit order kept", input: []string{"gbk", "utf-8"}, want: []Encoding{GBK, UTF8}},
		{name: "single encoding", input: []string{"utf-8"}, want: []Encoding{UTF8}},
		{name: "unknown encoding", input: []string{"utf-8", "big5"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEncodings(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode(t *testing.T) {
	gbk := []byte{0xD0, 0xF2, 0xBA, 0xC5} // 序号

	tests := []struct {
		name    string
		enc     Encoding
		input   []byte
		want    string
		wantErr bool
	}{
		{name: "utf-8 plain", enc: UTF8, input: []byte("序号"), want: "序号"},
		{name: "utf-8 strips bom", enc: UTF8, input: append([]byte{0xEF, 0xBB, 0xBF}, "序号"...), want: "序号"},
		{name: "utf-8 rejects gbk bytes", enc: UTF8, input: gbk, wantErr: true},
		{name: "gbk decodes", enc: GBK, input: gbk, want: "序号"},
		{name: "gbk rejects invalid byte", enc: GBK, input: []byte{'a', 0xFF}, wantErr: true},
		{name: "unknown encoding", enc: Encoding("latin1"), input: []byte("a"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decode(tt.enc, tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestTryEncodingsStopsAtFirstSuccess(t *testing.T) {
	attempts := tryEncodings([]byte("a,b\n1,2\n"), DefaultEncodings)

	require.Len(t, attempts, 1)
	assert.True(t, attempts[0].OK())
	assert.Equal(t, UTF8, attempts[0].Encoding)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, attempts[0].Records)
	assert.Contains(t, attempts[0].String(), "ok (2 records)")
}

func TestTryEncodingsEmptyInput(t *testing.T) {
	attempts := tryEncodings(nil, DefaultEncodings)

	require.Len(t, attempts, 2)
	for _, a := range attempts {
		assert.False(t, a.OK())
		assert.Contains(t, a.String(), "no header row")
	}
}
