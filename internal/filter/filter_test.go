package filter

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func testFields() Fields {
	return Fields{
		{
			ID: "status", Label: "Status", Type: TypeSelect,
			Options: []Option{
				{Value: "open", Label: "Open", Color: "#22c55e"},
				{Value: "closed", Label: "Closed", Color: "#64748b"},
			},
		},
		{ID: "owner", Label: "Owner", Type: TypeAsyncSelect},
		{ID: "created", Label: "Created", Type: TypeDate},
	}
}

func TestSerialize(t *testing.T) {
	for _, tc := range []struct {
		name    string
		filters []Value
		want    string
	}{
		{name: "Empty", filters: nil, want: ""},
		{name: "Single", filters: []Value{{Field: "status", Operator: OpIs, Value: "open", Label: "Open"}}, want: "status:is:open"},
		{
			name: "Multiple",
			filters: []Value{
				{Field: "status", Operator: OpIs, Value: "open"},
				{Field: "created", Operator: OpAfter, Value: "2024-01-01"},
			},
			want: "status:is:open,created:after:2024-01-01",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := Serialize(tc.filters); got != tc.want {
				t.Errorf("Serialize() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	fields := testFields()
	for _, tc := range []struct {
		name  string
		input string
		want  []Value
	}{
		{name: "Empty", input: "", want: []Value{}},
		{
			name:  "LabelFromOptions",
			input: "status:is:open,created:after:2024-01-01",
			want: []Value{
				{Field: "status", Operator: OpIs, Value: "open", Label: "Open"},
				{Field: "created", Operator: OpAfter, Value: "2024-01-01"},
			},
		},
		{name: "MissingValue", input: "status:is", want: []Value{}},
		{name: "UnknownOperator", input: "status:bogusOp:open", want: []Value{}},
		{name: "UnknownField", input: "color:is:red", want: []Value{}},
		{name: "EmptyPart", input: "status::open", want: []Value{}},
		{
			name:  "BadEntriesDroppedGoodKept",
			input: "status:is,owner:is:u1,,status:isNot:closed",
			want: []Value{
				{Field: "owner", Operator: OpIs, Value: "u1"},
				{Field: "status", Operator: OpIsNot, Value: "closed", Label: "Closed"},
			},
		},
		{
			name:  "RelativeDateKeepsToken",
			input: "created:after:relative:7d",
			want:  []Value{{Field: "created", Operator: OpAfter, Value: "relative:7d"}},
		},
		{
			name:  "TypeMismatchAccepted",
			input: "created:is:2024-01-01",
			want:  []Value{{Field: "created", Operator: OpIs, Value: "2024-01-01"}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.input, fields)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseStrict(t *testing.T) {
	fields := testFields()
	got := ParseStrict("created:is:2024-01-01,status:before:open,status:is:open", fields)
	want := []Value{{Field: "status", Operator: OpIs, Value: "open", Label: "Open"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseStrict() = %+v, want %+v", got, want)
	}
	if got := Normalize("created:is:2024-01-01,status:is:open,junk", fields, true); got != "status:is:open" {
		t.Errorf("Normalize(strict) = %q, want %q", got, "status:is:open")
	}
	if got := Normalize("created:is:2024-01-01,junk", fields, false); got != "created:is:2024-01-01" {
		t.Errorf("Normalize(lenient) = %q, want %q", got, "created:is:2024-01-01")
	}
}

func TestRoundTrip(t *testing.T) {
	fields := testFields()
	filters := []Value{
		{Field: "status", Operator: OpIs, Value: "open"},
		{Field: "created", Operator: OpAfter, Value: "2024-01-01"},
		{Field: "created", Operator: OpBefore, Value: "relative:thisMonth", Label: "This month"},
		{Field: "owner", Operator: OpIsNot, Value: "user-42", Label: "stale label"},
	}
	got := Parse(Serialize(filters), fields)
	if len(got) != len(filters) {
		t.Fatalf("round trip returned %d filters, want %d", len(got), len(filters))
	}
	for i := range filters {
		if got[i].Field != filters[i].Field || got[i].Operator != filters[i].Operator || got[i].Value != filters[i].Value {
			t.Errorf("filter %d = %+v, want %+v", i, got[i], filters[i])
		}
	}
	if got[0].Label != "Open" {
		t.Errorf("derived label = %q, want %q", got[0].Label, "Open")
	}
	if got[3].Label != "" {
		t.Errorf("async label = %q, want none", got[3].Label)
	}
}

func TestOperators(t *testing.T) {
	if got := DefaultOperator(TypeDate); got != OpAfter {
		t.Errorf("DefaultOperator(date) = %q, want after", got)
	}
	if got := DefaultOperator(TypeAsyncSelect); got != OpIs {
		t.Errorf("DefaultOperator(asyncSelect) = %q, want is", got)
	}
	for _, tc := range []struct {
		typ  FieldType
		op   Operator
		want Operator
	}{
		{TypeSelect, OpIs, OpIsNot},
		{TypeSelect, OpIsNot, OpIs},
		{TypeDate, OpBefore, OpAfter},
		{TypeDate, OpAfter, OpBefore},
		{TypeDate, OpIs, OpBefore},
	} {
		if got := ToggleOperator(tc.typ, tc.op); got != tc.want {
			t.Errorf("ToggleOperator(%s, %s) = %s, want %s", tc.typ, tc.op, got, tc.want)
		}
	}
	if Allowed(TypeDate, OpIs) {
		t.Error("Allowed(date, is) = true")
	}
	if got := OpIsNot.Label(); got != "is not" {
		t.Errorf("OpIsNot.Label() = %q", got)
	}
}

func TestFieldsValidate(t *testing.T) {
	if err := testFields().Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	for _, tc := range []struct {
		name   string
		fields Fields
	}{
		{name: "NoID", fields: Fields{{Label: "x", Type: TypeSelect}}},
		{name: "Duplicate", fields: Fields{{ID: "a", Type: TypeSelect}, {ID: "a", Type: TypeDate}}},
		{name: "ReservedChar", fields: Fields{{ID: "a:b", Type: TypeSelect}}},
		{name: "UnknownType", fields: Fields{{ID: "a", Type: "text"}}},
		{name: "CommaInOption", fields: Fields{{ID: "a", Type: TypeSelect, Options: []Option{{Value: "x,y"}}}}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.fields.Validate()
			if !errors.Is(err, ErrInvalidField) {
				t.Errorf("Validate() = %v, want ErrInvalidField", err)
			}
		})
	}
}

func TestFormatDateValue(t *testing.T) {
	for _, tc := range []struct {
		in, want string
	}{
		{"", ""},
		{"relative:today", "Today"},
		{"relative:7d", "Last 7 days"},
		{"relative:30d", "Last 30 days"},
		{"relative:thisMonth", "This month"},
		{"relative:quarter", "quarter"},
		{"2024-01-05", "Jan 5, 2024"},
		{"not-a-date", "not-a-date"},
	} {
		if got := FormatDateValue(tc.in); got != tc.want {
			t.Errorf("FormatDateValue(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolveRelative(t *testing.T) {
	now := time.Date(2024, time.March, 5, 15, 4, 0, 0, time.UTC)
	for _, tc := range []struct {
		token, want string
	}{
		{RelativeToday, "2024-03-05"},
		{Relative7Days, "2024-02-27"},
		{Relative30Days, "2024-02-04"},
		{RelativeThisMonth, "2024-03-01"},
		{"bogus", "bogus"},
	} {
		if got := ResolveRelative(tc.token, now); got != tc.want {
			t.Errorf("ResolveRelative(%q) = %q, want %q", tc.token, got, tc.want)
		}
	}

	day, ok := ResolveDate("relative:7d", now)
	if !ok || day.Format(DateLayout) != "2024-02-27" {
		t.Errorf("ResolveDate(relative:7d) = %v, %v", day, ok)
	}
	if _, ok := ResolveDate("yesterday", now); ok {
		t.Error("ResolveDate(yesterday) succeeded")
	}
}

func TestChip(t *testing.T) {
	fields := testFields()
	status, _ := fields.Lookup("status")
	created, _ := fields.Lookup("created")
	owner, _ := fields.Lookup("owner")

	c := NewChip(Value{Field: "status", Operator: OpIs, Value: "open"}, status, 2)
	if got := c.Key(); got != "status-2" {
		t.Errorf("Key() = %q, want %q", got, "status-2")
	}
	if got := c.ValueLabel(); got != "Open" {
		t.Errorf("ValueLabel() = %q, want %q", got, "Open")
	}
	if got := c.Color(); got != "#22c55e" {
		t.Errorf("Color() = %q", got)
	}
	if got := c.ToggleOperator().Operator; got != OpIsNot {
		t.Errorf("ToggleOperator() = %q, want isNot", got)
	}
	choices := c.Choices()
	if len(choices) != 2 || !choices[0].Selected || choices[1].Selected {
		t.Errorf("Choices() = %+v", choices)
	}
	if got := c.Reselect("closed", "Closed"); got.Value != "closed" || got.Label != "Closed" || got.Operator != OpIs {
		t.Errorf("Reselect() = %+v", got)
	}

	d := NewChip(Value{Field: "created", Operator: OpAfter, Value: "relative:7d", Label: "ignored"}, created, 0)
	if got := d.ValueLabel(); got != "Last 7 days" {
		t.Errorf("date ValueLabel() = %q", got)
	}
	if got := d.OperatorLabel(); got != "after" {
		t.Errorf("date OperatorLabel() = %q", got)
	}
	var selected int
	for _, ch := range d.Choices() {
		if ch.Selected {
			selected++
			if ch.Option.Value != "relative:7d" {
				t.Errorf("selected choice = %q", ch.Option.Value)
			}
		}
	}
	if selected != 1 {
		t.Errorf("selected choices = %d, want 1", selected)
	}

	a := NewChip(Value{Field: "owner", Operator: OpIs, Value: "u-7"}, owner, 1)
	if got := a.ValueLabel(); got != "u-7" {
		t.Errorf("async ValueLabel() = %q, want raw value", got)
	}

	chips := Chips([]Value{
		{Field: "status", Operator: OpIs, Value: "open"},
		{Field: "gone", Operator: OpIs, Value: "x"},
		{Field: "status", Operator: OpIs, Value: "closed"},
	}, fields)
	if len(chips) != 2 || chips[1].Key() != "status-2" {
		t.Errorf("Chips() keys = %v", chips)
	}
}

func staticLoader(opts []Option) LoaderFunc {
	return func(context.Context, string) ([]Option, error) {
		return opts, nil
	}
}
