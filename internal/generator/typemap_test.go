package generator

import (
	"errors"
	"testing"
)

func TestMapType(t *testing.T) {
	tests := []struct {
		name    string
		dbType  string
		isArray bool
		want    string
		wantErr bool
	}{
		{name: "serial", dbType: "serial", want: "Int"},
		{name: "int4", dbType: "int4", want: "Int"},
		{name: "bigint", dbType: "bigint", want: "BigInt"},
		{name: "varchar with length", dbType: "varchar(255)", want: "String"},
		{name: "character varying", dbType: "character varying", want: "String"},
		{name: "upper case sqlite type", dbType: "VARCHAR(20)", want: "String"},
		{name: "boolean", dbType: "boolean", want: "Boolean"},
		{name: "timestamptz", dbType: "timestamptz", want: "DateTime"},
		{name: "timestamp with precision", dbType: "timestamp(6) with time zone", want: "DateTime"},
		{name: "numeric with scale", dbType: "numeric(10, 2)", want: "Decimal"},
		{name: "double precision", dbType: "double precision", want: "Float"},
		{name: "uuid", dbType: "uuid", want: "String"},
		{name: "jsonb", dbType: "jsonb", want: "Json"},
		{name: "bytea", dbType: "bytea", want: "Bytes"},
		{name: "enum", dbType: "enum", want: "String"},
		{name: "mysql unsigned", dbType: "int unsigned", want: "Int"},
		{name: "mysql unsigned zerofill", dbType: "int(10) unsigned zerofill", want: "Int"},
		{name: "mysql zerofill unsigned", dbType: "bigint zerofill unsigned", want: "BigInt"},
		{name: "array flag", dbType: "text", isArray: true, want: "String[]"},
		{name: "array suffix", dbType: "int4[]", want: "Int[]"},
		{name: "unknown", dbType: "geometry", wantErr: true},
		{name: "empty", dbType: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MapType(tt.dbType, tt.isArray)
			if tt.wantErr {
				var ute *UnknownTypeError
				if !errors.As(err, &ute) {
					t.Fatalf("MapType(%q) error = %v, want UnknownTypeError", tt.dbType, err)
				}
				if ute.DBType != tt.dbType {
					t.Errorf("UnknownTypeError.DBType = %q, want %q", ute.DBType, tt.dbType)
				}
				return
			}
			if err != nil {
				t.Fatalf("MapType(%q) unexpected error: %v", tt.dbType, err)
			}
			if got != tt.want {
				t.Errorf("MapType(%q) = %q, want %q", tt.dbType, got, tt.want)
			}
		})
	}
}

func TestMapTypeTotal(t *testing.T) {
	for tag := range prismaTypes {
		got, err := MapType(tag, false)
		if err != nil {
			t.Errorf("MapType(%q) unexpected error: %v", tag, err)
			continue
		}
		if got == "" {
			t.Errorf("MapType(%q) returned an empty type", tag)
		}
	}
}

func TestPad(t *testing.T) {
	tests := []struct {
		max, actual int
		want        string
	}{
		{max: 8, actual: 2, want: "      "},
		{max: 8, actual: 7, want: " "},
		{max: 8, actual: 8, want: " "},
		{max: 3, actual: 10, want: " "},
	}

	for _, tt := range tests {
		if got := Pad(tt.max, tt.actual); got != tt.want {
			t.Errorf("Pad(%d, %d) = %q, want %q", tt.max, tt.actual, got, tt.want)
		}
	}
}
