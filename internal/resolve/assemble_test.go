package resolve

import "testing"

func TestAssembleOrderIndependence(t *testing.T) {
	ls := mustCommand(t, "ls")

	orders := []Values{
		{"path": "/tmp", "long": true, "all": true, "human": true},
		{"human": true, "all": true, "long": true, "path": "/tmp"},
		{"all": true, "path": "/tmp", "human": true, "long": true},
	}
	want := []string{"-l", "-a", "-h", "/tmp"}

	for _, values := range orders {
		norm, errs := Validate(ls, values)
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %+v", errs)
		}
		tokens, errs := Assemble(ls, norm)
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %+v", errs)
		}
		if !equalStrings(tokens, want) {
			t.Errorf("tokens = %q, want %q", tokens, want)
		}
	}
}

func TestAssembleFlagForms(t *testing.T) {
	find := mustCommand(t, "find")

	tests := []struct {
		name   string
		values Values
		want   []string
	}{
		{"assignment flag", Values{"type": "f"}, []string{"-type=f"}},
		{"free-form text is always quoted", Values{"name": "notes"}, []string{"-name", "'notes'"}},
		{"bare dash prefix", Values{"depth": 3}, []string{"-3"}},
		{"bare plus prefix", Values{"mode": "x"}, []string{"+x"}},
		{"quoted value after assignment", Values{"type": "d", "name": "*.go"}, []string{"-type=d", "-name", "'*.go'"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			norm, errs := Validate(find, tt.values)
			if len(errs) != 0 {
				t.Fatalf("unexpected errors: %+v", errs)
			}
			tokens, _ := Assemble(find, norm)
			if !equalStrings(tokens, tt.want) {
				t.Errorf("tokens = %q, want %q", tokens, tt.want)
			}
		})
	}
}

func TestAssembleQuoting(t *testing.T) {
	head := mustCommand(t, "head")

	tests := []struct {
		file string
		want string
	}{
		{"log.txt", "log.txt"},
		{"/var/log/app-1.log", "/var/log/app-1.log"},
		{"my notes.txt", "'my notes.txt'"},
		{"it's.txt", `'it'\''s.txt'`},
		{"$HOME/x", "'$HOME/x'"},
		{"x=y%^", "x=y%^"},
		{"+x:1", "+x:1"},
	}
	for _, tt := range tests {
		norm, _ := Validate(head, Values{"file": tt.file, "lines": "10"})
		tokens, _ := Assemble(head, norm)
		want := []string{"-n", "10", tt.want}
		if !equalStrings(tokens, want) {
			t.Errorf("file %q: tokens = %q, want %q", tt.file, tokens, want)
		}
	}
}

func TestAssemblePositionalGap(t *testing.T) {
	cp := mustCommand(t, "cp")

	tests := []struct {
		name      string
		values    Values
		wantGaps  []int
		wantTaken []string
	}{
		{"contiguous", Values{"source": "a", "dest": "b"}, nil, []string{"a", "b"}},
		{"all three", Values{"source": "a", "dest": "b", "extra": "c"}, nil, []string{"a", "b", "c"}},
		{"hole at one", Values{"dest": "b"}, []int{2}, []string{}},
		{"hole at two", Values{"source": "a", "extra": "c"}, []int{3}, []string{"a"}},
		{"hole at one and two", Values{"extra": "c"}, []int{3}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			norm, _ := Validate(cp, tt.values)
			tokens, errs := Assemble(cp, norm)
			if len(errs) != len(tt.wantGaps) {
				t.Fatalf("errs = %+v, want gaps at %v", errs, tt.wantGaps)
			}
			for i, pos := range tt.wantGaps {
				if errs[i].Code != CodePositionalGap || errs[i].Position != pos {
					t.Errorf("errs[%d] = %+v, want POSITIONAL_GAP at %d", i, errs[i], pos)
				}
			}
			if !equalStrings(tokens, tt.wantTaken) {
				t.Errorf("tokens = %q, want %q", tokens, tt.wantTaken)
			}
		})
	}
}

func TestAssembleDefaults(t *testing.T) {
	sort := mustCommand(t, "sort")

	norm, errs := Validate(sort, Values{})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	tokens, _ := Assemble(sort, norm)
	want := []string{"-k", "1", "--order", "asc", "--parallel", "2", "-u"}
	if !equalStrings(tokens, want) {
		t.Errorf("tokens = %q, want %q", tokens, want)
	}

	norm, _ = Validate(sort, Values{"unique": false, "order": "desc"})
	tokens, _ = Assemble(sort, norm)
	want = []string{"-k", "1", "--order", "desc", "--parallel", "2"}
	if !equalStrings(tokens, want) {
		t.Errorf("tokens = %q, want %q", tokens, want)
	}
}
