package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/matiasvera/rifero/pkg/domain"
)

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(domain.User{ID: 1}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, func() string { return "tok-123" })
	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("Me: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestAnonymousWhenTokenEmpty(t *testing.T) {
	var gotAuth string
	var hasAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hasAuth = r.Header["Authorization"]
		w.Write([]byte("[]")) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	if _, err := c.ListRaffles(context.Background()); err != nil {
		t.Fatalf("ListRaffles: %v", err)
	}
	if hasAuth {
		t.Errorf("anonymous request carried Authorization %q", gotAuth)
	}
}

func TestLoginDecodesTokenPair(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login/" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var creds domain.Credentials
		json.NewDecoder(r.Body).Decode(&creds) //nolint:errcheck
		if creds.Email != "ana@example.com" {
			t.Errorf("email = %q", creds.Email)
		}
		w.Write([]byte(`{"access":"a1","refresh":"r1","user":{"id":9,"email":"ana@example.com"}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	pair, err := c.Login(context.Background(), domain.Credentials{Email: "ana@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.Access != "a1" || pair.Refresh != "r1" {
		t.Errorf("pair = %+v", pair)
	}
	if pair.User == nil || pair.User.ID != 9 {
		t.Errorf("user = %+v", pair.User)
	}
}

func TestErrorResponseBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Invalid credentials"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.Login(context.Background(), domain.Credentials{Email: "a@b.c", Password: "x"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !IsStatus(err, 401) {
		t.Errorf("IsStatus(err, 401) = false for %v", err)
	}
	if got := Message(err, "fallback"); got != "Invalid credentials" {
		t.Errorf("Message = %q", got)
	}
}

func TestPurchaseTicketWireContract(t *testing.T) {
	var gotKey string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tickets/purchase/" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotKey = r.Header.Get("Idempotency-Key")
		json.NewDecoder(r.Body).Decode(&gotBody) //nolint:errcheck
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{
			"message":"Ticket comprado exitosamente",
			"ticket_id":55,"ticket_number":13,
			"raffle_name":"Gold watch","amount_paid":"10.00",
			"payment_method":"Wallet","purchase_date":"2026-08-30T12:00:00Z"
		}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, func() string { return "tok" })
	receipt, err := c.PurchaseTicket(context.Background(), PurchaseRequest{
		RaffleID: 4, PaymentMethodID: 2, Number: 13,
	})
	if err != nil {
		t.Fatalf("PurchaseTicket: %v", err)
	}
	// One number per request, flat ID fields.
	if gotBody["raffle_id"] != float64(4) || gotBody["payment_method_id"] != float64(2) || gotBody["number"] != float64(13) {
		t.Errorf("body = %+v", gotBody)
	}
	if receipt.TicketID != 55 || receipt.TicketNumber != 13 {
		t.Errorf("receipt = %+v", receipt)
	}
	if receipt.AmountPaid != "10.00" {
		t.Errorf("AmountPaid = %q", receipt.AmountPaid)
	}
	if _, err := uuid.Parse(gotKey); err != nil {
		t.Errorf("Idempotency-Key %q is not a UUID: %v", gotKey, err)
	}
}

func TestCreateRaffleDecodesAck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/raffle/create/" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"Rifa creada exitosamente","raffle_id":77,"raffle_name":"Fresh","raffle_state":"Activa"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, func() string { return "tok" })
	created, err := c.CreateRaffle(context.Background(), RaffleRequest{Name: "Fresh"})
	if err != nil {
		t.Fatalf("CreateRaffle: %v", err)
	}
	if created.ID != 77 || created.Name != "Fresh" {
		t.Errorf("created = %+v", created)
	}
}

func TestListCatalogDecodesPrefixedFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user-info/genders/" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`[
			{"id":1,"gender_name":"Female","gender_code":"F","gender_is_active":true},
			{"id":2,"gender_name":"Male","gender_code":"M","gender_is_active":false}
		]`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	items, err := c.ListCatalog(context.Background(), domain.CatalogGenders, 0)
	if err != nil {
		t.Fatalf("ListCatalog: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %+v", items)
	}
	if items[0].Name != "Female" || items[0].Code != "F" || !items[0].Active {
		t.Errorf("items[0] = %+v", items[0])
	}
	if items[1].Active {
		t.Error("inactive flag not decoded")
	}
}

func TestListCatalogFiltersByParent(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[{"id":3,"state_name":"Central","country":7}]`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	items, err := c.ListCatalog(context.Background(), domain.CatalogStates, 7)
	if err != nil {
		t.Fatalf("ListCatalog: %v", err)
	}
	if gotQuery != "country=7" {
		t.Errorf("query = %q", gotQuery)
	}
	if len(items) != 1 || items[0].ParentID != 7 {
		t.Errorf("items = %+v", items)
	}
}

func TestCreateCatalogItemEncodesPrefixedFields(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody) //nolint:errcheck
		w.Write([]byte(`{"id":10,"city_name":"Asunción","state":3}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	created, err := c.CreateCatalogItem(context.Background(), domain.CatalogCities, domain.CatalogItem{
		Name: "Asunción", Active: true, ParentID: 3,
	})
	if err != nil {
		t.Fatalf("CreateCatalogItem: %v", err)
	}
	if gotBody["city_name"] != "Asunción" {
		t.Errorf("body = %+v", gotBody)
	}
	if gotBody["state"] != float64(3) {
		t.Errorf("parent not encoded: %+v", gotBody)
	}
	if created.ID != 10 || created.ParentID != 3 {
		t.Errorf("created = %+v", created)
	}
}

func TestDeleteRaffleUsesPatch(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, func() string { return "tok" })
	if err := c.DeleteRaffle(context.Background(), 12); err != nil {
		t.Fatalf("DeleteRaffle: %v", err)
	}
	if gotMethod != http.MethodPatch {
		t.Errorf("method = %q, want PATCH", gotMethod)
	}
	if gotPath != "/raffle/12/delete/" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestListUsersQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	if _, err := c.ListUsers(context.Background(), "ana maría"); err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if gotQuery != "q=ana+mar%C3%ADa" {
		t.Errorf("query = %q", gotQuery)
	}
}
