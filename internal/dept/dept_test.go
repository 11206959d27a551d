package dept

import "testing"

func TestCanon(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"AI&DS", "AIDS"},
		{"cse", "CSE"},
		{"CS-IOT", "CSIOT"},
		{" A I D ", "AID"},
		{"3rd", "RD"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Canon(c.in); got != c.want {
			t.Errorf("Canon(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBroad(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"AID", "AIDS"},
		{"AIDS", "AIDS"},
		{"AI&DS", "AIDS"},
		{"CSM", "AIDS"},
		{"AIML", "AIDS"},
		{"Artificial Intelligence", "AIDS"},
		{"Machine Learning", "AIDS"},
		{"Data Science", "AIDS"},
		{"CS-IOT", "AIDS"},
		{"cse", "CSE"},
		{"CS", "CSE"},
		{"Computer Science", "CSE"},
		{"ECE", "ECE"},
		{"MECH", "MECH"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Broad(c.in); got != c.want {
			t.Errorf("Broad(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBroadAliasesCollapse(t *testing.T) {
	aliases := []string{"AID", "AIDS", "AI&DS", "ai ds", "CSD", "CSDS", "CSAI"}
	for _, a := range aliases {
		if got := Broad(a); got != "AIDS" {
			t.Errorf("Broad(%q) = %q, want AIDS", a, got)
		}
	}
}

func TestStrict(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"AID", "AID"},
		{"AIDS", "AID"},
		{"IOT", "IOT"},
		{"CS-IOT", "IOT"},
		{"CSM", "CSM"},
		{"CSML", "CSM"},
		{"AIML", "CSM"},
		{"CSE", "CSE"},
		{"ece", "ECE"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Strict(c.in); got != c.want {
			t.Errorf("Strict(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestStrictKeepsSiblingsApart(t *testing.T) {
	if Strict("AID") == Strict("IOT") {
		t.Error("strict mapping must keep AID and IOT apart")
	}
	if Strict("AID") == Strict("CSM") {
		t.Error("strict mapping must keep AID and CSM apart")
	}
	if !SameBroad("AID", "IOT") {
		t.Error("AID and IOT should share the broad AIDS group")
	}
}
