package migrations

import "testing"

func TestVersions_Ordered(t *testing.T) {
	versions, err := Versions()
	if err != nil {
		t.Fatalf("versions: %v", err)
	}
	if len(versions) == 0 || versions[0] != "001_init" {
		t.Fatalf("got %v", versions)
	}
	for i := 1; i < len(versions); i++ {
		if versions[i-1] >= versions[i] {
			t.Errorf("versions out of order: %v", versions)
		}
	}
}
