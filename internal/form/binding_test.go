package form

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yanizio/adept-forms/internal/store"
)

type loginField string

const (
	fEmail    loginField = "email"
	fPassword loginField = "password"
)

func bindLogin(t *testing.T) *Binding[loginField] {
	t.Helper()
	slice := CreateSliceOptions("login", NewFormState(fEmail, fPassword))
	b, err := Bind(store.New(), slice,
		FieldSpec[loginField]{Name: fEmail, Kind: KindNotEmpty, Props: TextInputProps{Label: "Email"}},
		FieldSpec[loginField]{Name: fPassword, Kind: KindPassword, Props: TextInputProps{Label: "Password"}},
	)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	return b
}

func TestNotEmptyEndToEnd(t *testing.T) {
	b := bindLogin(t)

	state, _ := b.State()
	if diff := cmp.Diff(DefaultInputField, state[fEmail]); diff != "" {
		t.Fatalf("initial (-want +got):\n%s", diff)
	}

	var failed []loginField
	b.ValidationFailed = func(name loginField, _ string) { failed = append(failed, name) }

	if err := b.Change(fEmail, ""); err != nil {
		t.Fatal(err)
	}

	state, _ = b.State()
	want := InputField{Value: "", Error: MsgNotEmpty, Untouched: false}
	if diff := cmp.Diff(want, state[fEmail]); diff != "" {
		t.Fatalf("after change (-want +got):\n%s", diff)
	}
	if b.Valid() {
		t.Fatal("form with an error reported valid")
	}
	if diff := cmp.Diff([]loginField{fEmail}, failed); diff != "" {
		t.Fatalf("ValidationFailed calls (-want +got):\n%s", diff)
	}

	_ = b.Change(fEmail, "me@example.com")
	state, _ = b.State()
	if state[fEmail].Error != "" || !b.Valid() {
		t.Fatalf("error not cleared: %+v", state[fEmail])
	}
}

func TestBindingTouchResetAndInitialValues(t *testing.T) {
	b := bindLogin(t)

	b.SetInitialValues(FormPayload[loginField]{fEmail: "seed@example.com"})
	b.TouchAll()
	state, _ := b.State()
	if state[fEmail].Value != "seed@example.com" || state[fPassword].Untouched {
		t.Fatalf("state = %+v", state)
	}

	b.Reset()
	state, _ = b.State()
	if diff := cmp.Diff(FormState[loginField]{fEmail: DefaultInputField, fPassword: DefaultInputField}, state); diff != "" {
		t.Fatalf("after reset (-want +got):\n%s", diff)
	}

	p, err := b.Payload()
	if err != nil || p[fEmail] != "" {
		t.Fatalf("payload = %v, %v", p, err)
	}
}

func TestBindingSetError(t *testing.T) {
	b := bindLogin(t)
	_ = b.Change(fPassword, "hunter22")
	if err := b.SetError(fPassword, "Incorrect email or password."); err != nil {
		t.Fatal(err)
	}
	state, _ := b.State()
	if diff := cmp.Diff(InputField{Value: "hunter22", Error: "Incorrect email or password."}, state[fPassword]); diff != "" {
		t.Fatalf("field (-want +got):\n%s", diff)
	}
	if err := b.SetError("nope", "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("SetError(nope) = %v", err)
	}
}

func TestBindingToggle(t *testing.T) {
	b := bindLogin(t)

	if b.Echoed(fPassword) {
		t.Fatal("hidden password must not be echoed")
	}
	if err := b.Toggle(fPassword); err != nil {
		t.Fatal(err)
	}
	if !b.Echoed(fPassword) {
		t.Fatal("visible password should be echoed")
	}
	if err := b.Toggle(fEmail); !errors.Is(err, ErrNotToggleable) {
		t.Fatalf("Toggle(email) = %v", err)
	}
	if err := b.Toggle("nope"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("Toggle(nope) = %v", err)
	}
}

func TestBindingLookupAndFields(t *testing.T) {
	b := bindLogin(t)
	if diff := cmp.Diff([]loginField{fEmail, fPassword}, b.Fields()); diff != "" {
		t.Fatalf("fields (-want +got):\n%s", diff)
	}
	if _, ok := b.Lookup("password"); !ok {
		t.Error("Lookup(password) failed")
	}
	if _, ok := b.Lookup("csrf_token"); ok {
		t.Error("Lookup accepted a foreign name")
	}
	if err := b.Change("nope", "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("Change(nope) = %v", err)
	}
}

func TestBindRejectsBadSpecs(t *testing.T) {
	slice := CreateSliceOptions("x", NewFormState(fEmail))
	_, err := Bind(store.New(), slice, FieldSpec[loginField]{Name: fPassword})
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("unknown field: %v", err)
	}
	_, err = Bind(store.New(), slice,
		FieldSpec[loginField]{Name: fEmail},
		FieldSpec[loginField]{Name: fEmail})
	if err == nil {
		t.Fatal("duplicate field accepted")
	}
}

func TestBindReusesRegisteredSlice(t *testing.T) {
	st := store.New()
	slice := CreateSliceOptions("login", NewFormState(fEmail, fPassword))
	first, err := Bind(st, slice, FieldSpec[loginField]{Name: fEmail})
	if err != nil {
		t.Fatal(err)
	}
	_ = first.Change(fEmail, "kept")

	second, err := Bind(st, slice, FieldSpec[loginField]{Name: fEmail})
	if err != nil {
		t.Fatal(err)
	}
	state, _ := second.State()
	if state[fEmail].Value != "kept" {
		t.Fatal("second binding did not see existing state")
	}
}

func TestBindingRender(t *testing.T) {
	b := bindLogin(t)
	_ = b.Change(fEmail, "")

	var buf bytes.Buffer
	if err := b.Render(&buf, RenderContext{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Index(out, `id="fld-email"`) > strings.Index(out, `id="fld-password"`) {
		t.Error("fields not in declaration order")
	}
	if !strings.Contains(out, MsgNotEmpty) {
		t.Error("touched error not rendered")
	}
}
