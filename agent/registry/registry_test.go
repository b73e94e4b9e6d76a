package registry

import (
	"errors"
	"testing"

	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
)

func TestKeysInRegistryOrder(t *testing.T) {
	t.Parallel()

	want := []contractx.Domain{
		contractx.DomainMarket,
		contractx.DomainPatent,
		contractx.DomainTrials,
		contractx.DomainTrade,
		contractx.DomainInternal,
		contractx.DomainWeb,
	}
	got := Keys()
	if len(got) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("key %d: got %s want %s", i, got[i], want[i])
		}
		if Position(want[i]) != i {
			t.Fatalf("position of %s: got %d want %d", want[i], Position(want[i]), i)
		}
	}
}

func TestLookupUnknownDomain(t *testing.T) {
	t.Parallel()

	_, err := Lookup("finance")
	if !errors.Is(err, contractx.ErrUnknownDomain) {
		t.Fatalf("expected ErrUnknownDomain, got %v", err)
	}
	var ude *contractx.UnknownDomainError
	if !errors.As(err, &ude) || ude.Key != "finance" {
		t.Fatalf("expected UnknownDomainError carrying key, got %#v", err)
	}
	if Has("finance") || Position("finance") != -1 {
		t.Fatal("unknown domain must not be registered")
	}
}

func TestLookupReturnsPersonaAndTask(t *testing.T) {
	t.Parallel()

	d, err := Lookup(contractx.DomainPatent)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if d.DisplayName != "Patent Landscape" {
		t.Fatalf("unexpected display name %q", d.DisplayName)
	}
	if d.Persona.Role == "" || d.Task.Description == "" {
		t.Fatalf("descriptor missing persona or task: %+v", d)
	}
}

func TestLookupReturnsCopies(t *testing.T) {
	t.Parallel()

	d, _ := Lookup(contractx.DomainMarket)
	d.Keywords[0] = "mutated"

	again, _ := Lookup(contractx.DomainMarket)
	if again.Keywords[0] != "market" {
		t.Fatalf("registry keywords were mutated: %v", again.Keywords)
	}
}

func TestDisplayNames(t *testing.T) {
	t.Parallel()

	names, err := DisplayNames([]contractx.Domain{contractx.DomainTrade, contractx.DomainWeb})
	if err != nil {
		t.Fatalf("DisplayNames() error = %v", err)
	}
	if names[0] != "Trade & Supply Chain" || names[1] != "Web Intelligence" {
		t.Fatalf("unexpected names: %v", names)
	}
	if _, err := DisplayNames([]contractx.Domain{"nope"}); !errors.Is(err, contractx.ErrUnknownDomain) {
		t.Fatalf("expected ErrUnknownDomain, got %v", err)
	}
}

func TestKeywordsAreLowerCase(t *testing.T) {
	t.Parallel()

	for _, d := range All() {
		for _, kw := range d.Keywords {
			for _, r := range kw {
				if r >= 'A' && r <= 'Z' {
					t.Fatalf("keyword %q of %s is not lower-case", kw, d.Key)
				}
			}
		}
	}
}
