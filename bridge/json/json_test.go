package json

import (
	"testing"

	"github.com/unkn0wn-root/nrf1"
)

func TestMarshalScalars(t *testing.T) {
	cases := []struct {
		v    nrf1.Value
		want string
	}{
		{nrf1.Null{}, `null`},
		{nrf1.Bool(true), `true`},
		{nrf1.Int64(-7), `-7`},
		{nrf1.String("hi"), `"hi"`},
	}
	for _, c := range cases {
		got, err := Marshal(c.v)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", c.v, err)
		}
		if string(got) != c.want {
			t.Errorf("Marshal(%v) = %s, want %s", c.v, got, c.want)
		}
	}
}

func TestMarshalBytesTunnel(t *testing.T) {
	got, err := Marshal(nrf1.Bytes{0xde, 0xad})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"$bytes":"dead"}`
	if string(got) != want {
		t.Fatalf("Marshal(Bytes) = %s, want %s", got, want)
	}
}

func TestUnmarshalBytesTunnel(t *testing.T) {
	v, err := Unmarshal([]byte(`{"$bytes":"dead"}`))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	b, ok := v.(nrf1.Bytes)
	if !ok || string(b) != "\xde\xad" {
		t.Fatalf("Unmarshal($bytes) = %#v, want Bytes{0xde,0xad}", v)
	}
}

func TestRoundTripMapAndArray(t *testing.T) {
	orig := nrf1.NewMap(map[string]nrf1.Value{
		"b": nrf1.Array{nrf1.Int64(1), nrf1.Int64(2)},
		"a": nrf1.String("x"),
	})

	b, err := Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(b)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	m, ok := got.(nrf1.Map)
	if !ok || len(m) != 2 {
		t.Fatalf("Unmarshal round trip = %#v, want 2-entry Map", got)
	}
}

func TestUnmarshalNonIntegralNumberErrors(t *testing.T) {
	if _, err := Unmarshal([]byte(`1.5`)); err == nil {
		t.Fatalf("Unmarshal(1.5): want error, got nil")
	}
}

func TestUnmarshalRejectsNonHexBytesTunnel(t *testing.T) {
	if _, err := Unmarshal([]byte(`{"$bytes":"zz"}`)); err == nil {
		t.Fatalf("Unmarshal(bad hex): want error, got nil")
	}
}
