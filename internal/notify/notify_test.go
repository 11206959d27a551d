package notify

import (
	"context"
	"testing"
)

func TestVisible(t *testing.T) {
	cases := []struct {
		name string
		n    Notification
		role string
		dept string
		want bool
	}{
		{"role match", Notification{TargetRole: TargetStudents}, "student", "CSE", true},
		{"role mismatch", Notification{TargetRole: TargetFaculty}, "student", "CSE", false},
		{"all roles", Notification{TargetRole: TargetAll}, "student", "CSE", true},
		{"dept match", Notification{TargetRole: TargetAll, TargetDept: "CSE"}, "student", "CSE", true},
		{"dept mismatch", Notification{TargetRole: TargetAll, TargetDept: "ECE"}, "student", "CSE", false},
		{"dept ALL", Notification{TargetRole: TargetAll, TargetDept: "ALL"}, "faculty", "ECE", true},
		{"dept empty", Notification{TargetRole: TargetAll, TargetDept: ""}, "faculty", "ECE", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Visible(c.n, c.role, c.dept); got != c.want {
				t.Errorf("Visible = %v, want %v", got, c.want)
			}
		})
	}
}

func TestFilterVisible(t *testing.T) {
	all := []Notification{
		{ID: "1", TargetRole: TargetStudents, TargetDept: "CSE"},
		{ID: "2", TargetRole: TargetStudents, TargetDept: "ECE"},
		{ID: "3", TargetRole: TargetAll},
	}
	got := FilterVisible(all, "student", "CSE")
	if len(got) != 2 {
		t.Fatalf("kept %d, want 2", len(got))
	}
	if got[0].ID != "1" || got[1].ID != "3" {
		t.Errorf("kept %v", got)
	}
}

type fakeNotifyStore struct {
	rows []Notification
}

func (f *fakeNotifyStore) Insert(_ context.Context, n Notification) (Notification, error) {
	n.ID = "n1"
	f.rows = append(f.rows, n)
	return n, nil
}

func (f *fakeNotifyStore) ListForRole(_ context.Context, role string, limit int) ([]Notification, error) {
	var out []Notification
	for _, n := range f.rows {
		if n.TargetRole == role || n.TargetRole == TargetAll {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotifyStore) DeleteBySender(_ context.Context, id, senderID string) error {
	for i, n := range f.rows {
		if n.ID == id && n.SenderID == senderID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func TestBroadcastAndDelete(t *testing.T) {
	store := &fakeNotifyStore{}
	svc := NewService(store, nil) // nil redis: publish skipped
	ctx := context.Background()

	saved, err := svc.Broadcast(ctx, Notification{Title: "Holiday", TargetRole: TargetAll, SenderID: "hod-1"})
	if err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if saved.ID == "" {
		t.Error("broadcast should return the stored row")
	}

	if err := svc.Delete(ctx, saved.ID, "someone-else"); err != ErrNotFound {
		t.Errorf("foreign delete err = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, saved.ID, "hod-1"); err != nil {
		t.Errorf("sender delete err = %v", err)
	}
}
