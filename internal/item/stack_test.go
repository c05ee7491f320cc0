package item

import (
	"strings"
	"testing"

	"github.com/opentibia/worldcore/internal/catalog"
)

func testCatalog(t *testing.T) *catalog.Index {
	t.Helper()
	src := `
id:100 name:"gold coin" flags:Stackable attrs:StackableCap=100
id:200 name:"backpack" flags:Container,Take attrs:Capacity=20
id:300 name:"sword" flags:Take
`
	idx, err := catalog.Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return idx
}

func TestValidateInvariantsStackableCap(t *testing.T) {
	cat := testCatalog(t)
	s := NewItemStack(1, 100)
	s.Count = 100
	if err := s.ValidateInvariants(cat); err != nil {
		t.Fatalf("expected cap count to be valid: %v", err)
	}
	s.Count = 101
	if err := s.ValidateInvariants(cat); err == nil {
		t.Fatal("expected over-cap count to be rejected")
	}
}

func TestValidateInvariantsNonStackableCount(t *testing.T) {
	cat := testCatalog(t)
	s := NewItemStack(1, 300)
	s.Count = 2
	if err := s.ValidateInvariants(cat); err == nil {
		t.Fatal("expected non-stackable count != 1 to be rejected")
	}
}

func TestValidateInvariantsContentsRequireContainer(t *testing.T) {
	cat := testCatalog(t)
	s := NewItemStack(1, 300)
	s.Contents = []*ItemStack{NewItemStack(2, 100)}
	if err := s.ValidateInvariants(cat); err == nil {
		t.Fatal("expected contents on non-container type to be rejected")
	}
}

func TestContainsIDFindsDescendant(t *testing.T) {
	inner := NewItemStack(2, 200)
	outer := NewItemStack(1, 200)
	outer.Contents = []*ItemStack{inner}
	if !outer.ContainsID(2) {
		t.Fatal("expected outer to contain inner's id")
	}
	if outer.ContainsID(99) {
		t.Fatal("did not expect outer to contain unrelated id")
	}
}

func TestTotalContentsCountWholeSubtree(t *testing.T) {
	leaf := NewItemStack(3, 100)
	inner := NewItemStack(2, 200)
	inner.Contents = []*ItemStack{leaf}
	outer := NewItemStack(1, 200)
	outer.Contents = []*ItemStack{inner}
	if got := outer.TotalContentsCount(); got != 2 {
		t.Fatalf("expected 2 nested items, got %d", got)
	}
}

func TestSetIntAttrReplacesExisting(t *testing.T) {
	s := NewItemStack(1, 300)
	s.SetIntAttr(AttrCharges, 3)
	s.SetIntAttr(AttrCharges, 5)
	if len(s.Attrs) != 1 {
		t.Fatalf("expected a single Charges attribute, got %d", len(s.Attrs))
	}
	if s.GetAttr(AttrCharges).IntVal != 5 {
		t.Fatal("expected replaced value 5")
	}
}

func TestRemoveAttr(t *testing.T) {
	s := NewItemStack(1, 300)
	s.SetStringAttr(AttrDynamicText, "hello")
	s.RemoveAttr(AttrDynamicText)
	if s.GetAttr(AttrDynamicText) != nil {
		t.Fatal("expected attribute to be removed")
	}
}

func TestChangeTypePreservesCountWhenBothStackable(t *testing.T) {
	s := NewItemStack(1, 100)
	s.Count = 50
	s.ChangeType(100, true, true)
	if s.Count != 50 {
		t.Fatalf("expected count preserved, got %d", s.Count)
	}
}

func TestChangeTypeResetsCountWhenNewNonStackable(t *testing.T) {
	s := NewItemStack(1, 100)
	s.Count = 50
	s.ChangeType(300, true, false)
	if s.Count != 1 {
		t.Fatalf("expected count reset to 1, got %d", s.Count)
	}
}
