package form

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yanizio/adept-forms/internal/store"
)

type testField string

const (
	fieldA testField = "a"
	fieldB testField = "b"
)

func testSlice() *SliceOptions[testField] {
	return CreateSliceOptions("test", NewFormState(fieldA, fieldB))
}

func TestSliceName(t *testing.T) {
	if got := testSlice().Name(); got != "form/test" {
		t.Fatalf("Name() = %q", got)
	}
}

func TestSetInitialValuesKeepsErrorOnEmpty(t *testing.T) {
	s := testSlice()
	state := FormState[testField]{
		fieldA: {Value: "old", Error: "bad", Untouched: true},
		fieldB: {Value: "old", Error: "bad", Untouched: false},
	}

	got := s.SetInitialValues(state, FormPayload[testField]{fieldA: "", fieldB: "x", "zzz": "ignored"})

	want := FormState[testField]{
		fieldA: {Value: "", Error: "bad", Untouched: true},
		fieldB: {Value: "x", Error: "", Untouched: false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("state (-want +got):\n%s", diff)
	}
	if state[fieldB].Value != "old" {
		t.Fatal("reducer mutated its input")
	}
}

func TestSetTouchedAll(t *testing.T) {
	s := testSlice()
	got := s.SetTouchedAll(s.InitialState())
	for name, f := range got {
		if f.Untouched {
			t.Errorf("%s still untouched", name)
		}
	}
	if !s.InitialState()[fieldA].Untouched {
		t.Fatal("initial snapshot was mutated")
	}
}

func TestResetFormReturnsInitial(t *testing.T) {
	initial := FormState[testField]{
		fieldA: {Value: "seed", Error: "", Untouched: true},
		fieldB: DefaultInputField,
	}
	s := CreateSliceOptions("test", initial)
	initial[fieldA] = InputField{Value: "changed later"} // caller's map is not shared

	st := store.New(s)
	st.Dispatch(s.SetInputFieldAction(fieldA, "typed", "err"))
	st.Dispatch(s.SetTouchedAllAction())
	st.Dispatch(s.ResetFormAction())

	got, err := store.Select[FormState[testField]](st, s.Name())
	if err != nil {
		t.Fatal(err)
	}
	want := FormState[testField]{
		fieldA: {Value: "seed", Error: "", Untouched: true},
		fieldB: DefaultInputField,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("after reset (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, s.ResetForm()); diff != "" {
		t.Fatalf("ResetForm (-want +got):\n%s", diff)
	}
	if reflect.ValueOf(s.ResetForm()).Pointer() != reflect.ValueOf(s.InitialState()).Pointer() {
		t.Fatal("ResetForm must return the one stored snapshot")
	}
}

func TestSetInputFieldTouches(t *testing.T) {
	s := testSlice()
	got := s.SetInputField(s.InitialState(), fieldB, "v", "e")
	if diff := cmp.Diff(InputField{Value: "v", Error: "e", Untouched: false}, got[fieldB]); diff != "" {
		t.Fatalf("field (-want +got):\n%s", diff)
	}
	if !got[fieldA].Untouched {
		t.Fatal("other fields must keep their state")
	}

	same := s.SetInputField(got, "nope", "v", "")
	if _, ok := same["nope"]; ok {
		t.Fatal("unknown field added to state")
	}
}

func TestReduceIgnoresForeignActions(t *testing.T) {
	s := testSlice()
	state := s.InitialState()
	for _, a := range []store.Action{
		{Type: "form/other/setTouchedAll"},
		{Type: "form/test/unknown"},
		{Type: "form/test/setInitialValues", Payload: "wrong payload"},
		{Type: "form/test/setInputField", Payload: 42},
	} {
		if _, ok := s.Reduce(state, a); ok {
			t.Errorf("Reduce handled %q", a.Type)
		}
	}
	if _, ok := s.Reduce(state, s.SetTouchedAllAction()); !ok {
		t.Error("Reduce ignored its own action")
	}
}

func TestReducerName(t *testing.T) {
	if got := ReducerName("form/login/setInputField"); got != ReducerSetInputField {
		t.Errorf("ReducerName = %q", got)
	}
	if got := ReducerName("plain"); got != "" {
		t.Errorf("ReducerName(plain) = %q", got)
	}
}

func TestIsFormValid(t *testing.T) {
	invalid := FormState[string]{
		"a": {Value: "1", Error: "", Untouched: true},
		"b": {Value: "", Error: "required", Untouched: true},
	}
	if IsFormValid(invalid) {
		t.Error("form with an error reported valid")
	}
	valid := FormState[string]{"a": {Value: "1"}, "b": {Untouched: true}}
	if !IsFormValid(valid) {
		t.Error("form without errors reported invalid")
	}
}

func TestUseForm(t *testing.T) {
	s := testSlice()
	st := store.New(s)
	var seen []store.Action
	st.Subscribe(func(a store.Action) { seen = append(seen, a) })

	f := UseForm(s.InitialState(), s.SetInputFieldAction, st)
	if diff := cmp.Diff(FormPayload[testField]{fieldA: "", fieldB: ""}, f.Payload); diff != "" {
		t.Fatalf("payload (-want +got):\n%s", diff)
	}

	f.HandleChange(fieldA)("hello", "")
	if len(seen) != 1 || seen[0].Type != "form/test/setInputField" {
		t.Fatalf("dispatched %+v", seen)
	}

	state, _ := store.Select[FormState[testField]](st, s.Name())
	if got := UseForm(state, s.SetInputFieldAction, st).Payload[fieldA]; got != "hello" {
		t.Fatalf("payload not recomputed: %q", got)
	}
}
