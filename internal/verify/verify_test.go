package verify

import (
	"fmt"
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/jacoelho/devconf/errors"
)

type device struct {
	Enabled bool
	Lora    bool
	SD      bool
}

func rules() []Rule[device] {
	return []Rule[device]{
		{ID: 1, Check: func(d *device) error {
			if !d.Enabled {
				return errors.NoTriggerEnabled
			}
			return nil
		}},
		{ID: 2, Check: func(d *device) error {
			if d.Enabled && !d.Lora && !d.SD {
				return errors.NoDataDestinationEnabled
			}
			return nil
		}},
		{ID: 3, Check: func(d *device) error {
			if d.Lora && d.SD && !d.Enabled {
				return fmt.Errorf("unclassified")
			}
			return nil
		}},
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name string
		dev  device
		want []errors.Code
	}{
		{name: "passes", dev: device{Enabled: true, Lora: true}, want: []errors.Code{}},
		{
			name: "no destination",
			dev:  device{Enabled: true},
			want: []errors.Code{errors.NewCode(errors.NoDataDestinationEnabled, 2)},
		},
		{
			name: "disabled with unclassified failure",
			dev:  device{Lora: true, SD: true},
			want: []errors.Code{
				errors.NewCode(errors.NoTriggerEnabled, 1),
				errors.NewCode(errors.VerifyUnspecified, 3),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Verify(&tt.dev, rules())
			td.Cmp(t, h.Capacity(), 3)
			td.Cmp(t, h.Codes(), tt.want)
		})
	}
}

func TestVerifyNoRules(t *testing.T) {
	h := Verify[device](&device{}, nil)
	td.Cmp(t, h.HasErrors(), false)
}

func TestIntoClearsPreviousCycle(t *testing.T) {
	h := errors.NewHandler(len(rules()))
	Into(h, &device{}, rules())
	td.Cmp(t, h.Codes(), []errors.Code{errors.NewCode(errors.NoTriggerEnabled, 1)})

	Into(h, &device{Enabled: true, SD: true}, rules())
	td.Cmp(t, h.HasErrors(), false)

	dev := device{Enabled: true}
	rs := rules()
	allocs := testing.AllocsPerRun(20, func() {
		Into(h, &dev, rs)
	})
	if allocs != 0 {
		t.Fatalf("Into() allocations = %.2f, want 0", allocs)
	}
}
