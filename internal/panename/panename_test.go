package panename

import "testing"

func TestNew_Main(t *testing.T) {
	n, err := New("main")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Role() != RoleMain {
		t.Errorf("expected RoleMain, got %v", n.Role())
	}
}

func TestNew_RoleDerivation(t *testing.T) {
	cases := map[string]Role{
		"manager1":  RoleManager,
		"mgr2":      RoleManager,
		"worker1":   RoleWorker,
		"work3":     RoleWorker,
		"secretary": RoleSecretary,
		"sec1":      RoleSecretary,
		"Manager-Q": RoleManager,
		"WORKER-9":  RoleWorker,
	}
	for name, want := range cases {
		n, err := New(name)
		if err != nil {
			t.Fatalf("New(%q): unexpected error: %v", name, err)
		}
		if n.Role() != want {
			t.Errorf("New(%q).Role() = %v, want %v", name, n.Role(), want)
		}
	}
}

func TestNew_RejectsUnrecognizedVocabulary(t *testing.T) {
	_, err := New("bob")
	if err == nil {
		t.Fatal("expected error for unrecognized name")
	}
}

func TestNew_RejectsEmpty(t *testing.T) {
	_, err := New("")
	if err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestRoleString(t *testing.T) {
	if RoleMain.String() != "main" {
		t.Errorf("unexpected String(): %s", RoleMain.String())
	}
	if RoleUnknown.String() != "unknown" {
		t.Errorf("unexpected String(): %s", RoleUnknown.String())
	}
}
