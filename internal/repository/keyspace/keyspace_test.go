package keyspace

import "testing"

func TestKeyspace_Naming(t *testing.T) {
	ks := New("askdocs:")

	tests := []struct {
		got  string
		want string
	}{
		{ks.RecordKey("chunks", "chk_ab12"), "askdocs:chunks:chk_ab12"},
		{ks.RecordPrefix("chunks"), "askdocs:chunks:"},
		{ks.IndexName("chunks"), "askdocs:chunks:idx"},
		{ks.SchemaKey("docs"), "askdocs:meta:schema:docs"},
		{ks.CacheKey("deadbeef"), "askdocs:emb_cache:deadbeef"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestNew_EmptyPrefixDefaults(t *testing.T) {
	ks := New("")
	if ks.Prefix() != DefaultPrefix {
		t.Errorf("Prefix() = %q, want %q", ks.Prefix(), DefaultPrefix)
	}
}

func TestKeyspace_CustomPrefixIsolation(t *testing.T) {
	a := New("tenant-a:")
	b := New("tenant-b:")
	if a.RecordKey("docs", "doc_1") == b.RecordKey("docs", "doc_1") {
		t.Error("different prefixes must produce disjoint keys")
	}
}
