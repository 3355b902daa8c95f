package service

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/repository"

	"github.com/google/uuid"
)

func validAddressInput() AddressInput {
	return AddressInput{
		Name:       "Priya Raman",
		Phone:      "+91-98400-12345",
		Line1:      "14 Harbour Lane",
		City:       "Chennai",
		State:      "TN",
		PostalCode: "600001",
		Country:    "India",
	}
}

func TestAddressCreateRequiresAllFields(t *testing.T) {
	svc := NewAddressService(newMockAddressRepository())
	ctx := context.Background()

	missing := []func(*AddressInput){
		func(in *AddressInput) { in.Name = "" },
		func(in *AddressInput) { in.Phone = "" },
		func(in *AddressInput) { in.Line1 = "" },
		func(in *AddressInput) { in.City = "" },
		func(in *AddressInput) { in.State = "" },
		func(in *AddressInput) { in.PostalCode = "" },
		func(in *AddressInput) { in.Country = "" },
	}
	for i, blank := range missing {
		in := validAddressInput()
		blank(&in)
		if _, err := svc.Create(ctx, "s1", in); !errors.Is(err, ErrMissingAddressFields) {
			t.Errorf("case %d: expected ErrMissingAddressFields, got %v", i, err)
		}
	}

	// Line2 is optional.
	in := validAddressInput()
	in.Line2 = ""
	if _, err := svc.Create(ctx, "s1", in); err != nil {
		t.Errorf("create without line2 failed: %v", err)
	}
}

func TestAddressDefaultIsExclusive(t *testing.T) {
	svc := NewAddressService(newMockAddressRepository())
	ctx := context.Background()

	first := validAddressInput()
	first.IsDefault = true
	a1, err := svc.Create(ctx, "s1", first)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	second := validAddressInput()
	second.Name = "Office"
	second.IsDefault = true
	a2, err := svc.Create(ctx, "s1", second)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	list, err := svc.List(ctx, "s1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 addresses, got %d", len(list))
	}
	if list[0].ID != a2.ID || !list[0].IsDefault {
		t.Errorf("expected the newest default first, got %+v", list[0])
	}
	if list[1].ID != a1.ID || list[1].IsDefault {
		t.Errorf("expected the earlier address demoted, got %+v", list[1])
	}
}

func TestAddressUpdatePromotesDefault(t *testing.T) {
	svc := NewAddressService(newMockAddressRepository())
	ctx := context.Background()

	home := validAddressInput()
	home.IsDefault = true
	a1, err := svc.Create(ctx, "s1", home)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	office := validAddressInput()
	office.Name = "Office"
	a2, err := svc.Create(ctx, "s1", office)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	promote := office
	promote.IsDefault = true
	if _, err := svc.Update(ctx, "s1", a2.ID, promote); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, err := svc.Get(ctx, "s1", a1.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.IsDefault {
		t.Error("previous default must be cleared when another address is promoted")
	}
}

func TestAddressSessionScope(t *testing.T) {
	svc := NewAddressService(newMockAddressRepository())
	ctx := context.Background()

	created, err := svc.Create(ctx, "s1", validAddressInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Get(ctx, "s2", created.ID); !errors.Is(err, repository.ErrAddressNotFound) {
		t.Errorf("expected ErrAddressNotFound for a foreign session, got %v", err)
	}

	if _, err := svc.Update(ctx, "s2", created.ID, validAddressInput()); !errors.Is(err, repository.ErrAddressNotFound) {
		t.Errorf("expected ErrAddressNotFound on foreign update, got %v", err)
	}

	other, err := svc.List(ctx, "s2")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("expected empty list for another session, got %d", len(other))
	}
}

func TestAddressDeleteIsIdempotent(t *testing.T) {
	svc := NewAddressService(newMockAddressRepository())
	ctx := context.Background()

	created, err := svc.Create(ctx, "s1", validAddressInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(ctx, "s1", created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete(ctx, "s1", created.ID); err != nil {
		t.Errorf("repeated delete must not error, got %v", err)
	}
	if err := svc.Delete(ctx, "s1", uuid.New()); err != nil {
		t.Errorf("deleting an unknown address must not error, got %v", err)
	}

	if _, err := svc.Get(ctx, "s1", created.ID); !errors.Is(err, repository.ErrAddressNotFound) {
		t.Errorf("expected ErrAddressNotFound after delete, got %v", err)
	}
}
