package identity

import (
	"context"
	"errors"
	"testing"
)

type fakeDirectory struct {
	accounts        map[string]*Account
	studentsByRoll  map[string]*Person
	studentsByAcct  map[string]*Person
	studentsByEmail map[string]*Person
	facultyByID     map[string]*Person
	facultyByAcct   map[string]*Person
	facultyByEmail  map[string]*Person
}

func (f *fakeDirectory) AccountByID(_ context.Context, id string) (*Account, error) {
	return f.accounts[id], nil
}
func (f *fakeDirectory) StudentByRoll(_ context.Context, roll string) (*Person, error) {
	return clone(f.studentsByRoll[roll]), nil
}
func (f *fakeDirectory) StudentByAccountID(_ context.Context, id string) (*Person, error) {
	return clone(f.studentsByAcct[id]), nil
}
func (f *fakeDirectory) StudentByEmail(_ context.Context, email string) (*Person, error) {
	return clone(f.studentsByEmail[email]), nil
}
func (f *fakeDirectory) FacultyByID(_ context.Context, id string) (*Person, error) {
	return clone(f.facultyByID[id]), nil
}
func (f *fakeDirectory) FacultyByAccountID(_ context.Context, id string) (*Person, error) {
	return clone(f.facultyByAcct[id]), nil
}
func (f *fakeDirectory) FacultyByEmail(_ context.Context, email string) (*Person, error) {
	return clone(f.facultyByEmail[email]), nil
}

func clone(p *Person) *Person {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

func emptyDirectory() *fakeDirectory {
	return &fakeDirectory{
		accounts:        map[string]*Account{},
		studentsByRoll:  map[string]*Person{},
		studentsByAcct:  map[string]*Person{},
		studentsByEmail: map[string]*Person{},
		facultyByID:     map[string]*Person{},
		facultyByAcct:   map[string]*Person{},
		facultyByEmail:  map[string]*Person{},
	}
}

func TestResolveDirectStudent(t *testing.T) {
	dir := emptyDirectory()
	dir.studentsByRoll["23CS001"] = &Person{ID: "23CS001", Role: RoleStudent, Name: "Asha", Dept: "CSE"}

	p, err := NewResolver(dir).Resolve(context.Background(), "23CS001")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.Source != "students" || p.Name != "Asha" {
		t.Errorf("got %+v, want students source", p)
	}
}

func TestResolveDirectFaculty(t *testing.T) {
	dir := emptyDirectory()
	dir.facultyByID["FAC01"] = &Person{ID: "FAC01", Role: RoleFaculty, Name: "Dr. Rao"}

	p, err := NewResolver(dir).Resolve(context.Background(), "FAC01")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.Source != "faculty" {
		t.Errorf("source = %q, want faculty", p.Source)
	}
}

func TestResolveLinkedAccountByEmail(t *testing.T) {
	dir := emptyDirectory()
	dir.accounts["uid-1"] = &Account{AccountID: "uid-1", Role: RoleStudent, Name: "Asha", Email: "asha@college.edu"}
	dir.studentsByEmail["asha@college.edu"] = &Person{ID: "23CS001", Role: RoleStudent, Name: "Asha", Dept: "CSE"}

	p, err := NewResolver(dir).Resolve(context.Background(), "uid-1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.Source != "users_linked" {
		t.Errorf("source = %q, want users_linked", p.Source)
	}
	if p.ID != "23CS001" {
		t.Errorf("resolved ID = %q, want roll number", p.ID)
	}
	if p.AccountID != "uid-1" {
		t.Errorf("account ID = %q, want uid-1", p.AccountID)
	}
}

func TestResolveAccountWithoutProfile(t *testing.T) {
	dir := emptyDirectory()
	dir.accounts["uid-2"] = &Account{AccountID: "uid-2", Role: RoleFaculty, Name: "Dr. Iyer", Email: "iyer@college.edu"}

	p, err := NewResolver(dir).Resolve(context.Background(), "uid-2")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.Source != "users" {
		t.Errorf("source = %q, want users", p.Source)
	}
	if p.Role != RoleFaculty || p.Name != "Dr. Iyer" {
		t.Errorf("got %+v", p)
	}
}

func TestResolveUnknownRoleDefaultsToStudent(t *testing.T) {
	dir := emptyDirectory()
	dir.accounts["uid-3"] = &Account{AccountID: "uid-3", Role: "superadmin"}

	p, err := NewResolver(dir).Resolve(context.Background(), "uid-3")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.Role != RoleStudent {
		t.Errorf("role = %q, want student fallback", p.Role)
	}
}

func TestResolveNotFound(t *testing.T) {
	_, err := NewResolver(emptyDirectory()).Resolve(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestResolveIdempotent(t *testing.T) {
	dir := emptyDirectory()
	dir.studentsByRoll["23CS001"] = &Person{ID: "23CS001", Role: RoleStudent, Name: "Asha"}

	r := NewResolver(dir)
	first, err := r.Resolve(context.Background(), "23CS001")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	second, err := r.Resolve(context.Background(), "23CS001")
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if *first != *second {
		t.Errorf("resolution changed between calls: %+v vs %+v", first, second)
	}
}
