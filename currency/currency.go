package currency

import (
	"fmt"
	"sort"
	"strings"

	"github.com/juju/errors"
)

// Amount is integer counting lowest currency unit, e.g. $1.20 = 120
type Amount uint32

func (self Amount) Format100I() string { return fmt.Sprint(float32(self) / 100) }

// Nominal is value of one coin
type Nominal Amount

var ErrNominalInvalid = errors.New("Nominal is not valid for this group")

// NominalGroup counts money comprised of a fixed set of nominals.
// Nominals are set once with SetValid, Add never introduces a new one.
// coin5 : 3
// coin10: 1
// coin25: 4
// total : 125
type NominalGroup struct {
	values map[Nominal]uint
}

func NewNominalGroup(valid ...Nominal) *NominalGroup {
	ng := &NominalGroup{}
	ng.SetValid(valid)
	return ng
}

// Copy returns independent snapshot.
func (self *NominalGroup) Copy() *NominalGroup {
	ng2 := &NominalGroup{
		values: make(map[Nominal]uint, len(self.values)),
	}
	for k, v := range self.values {
		ng2.values[k] = v
	}
	return ng2
}

func (self *NominalGroup) SetValid(valid []Nominal) {
	self.values = make(map[Nominal]uint, len(valid))
	for _, n := range valid {
		if n != 0 {
			self.values[n] = 0
		}
	}
}

func (self *NominalGroup) Valid(n Nominal) bool {
	_, ok := self.values[n]
	return ok
}

func (self *NominalGroup) Add(n Nominal, count uint) error {
	if !self.Valid(n) {
		return errors.Annotatef(ErrNominalInvalid, "Add(n=%d, c=%d)", n, count)
	}
	self.values[n] += count
	return nil
}

// AddFrom adds counts of nominals known to both groups.
func (self *NominalGroup) AddFrom(source *NominalGroup) {
	for k, v := range source.values {
		if _, ok := self.values[k]; ok {
			self.values[k] += v
		}
	}
}

func (self *NominalGroup) Clear() {
	for n := range self.values {
		self.values[n] = 0
	}
}

func (self *NominalGroup) Get(n Nominal) (uint, error) {
	if stored, ok := self.values[n]; !ok {
		return 0, ErrNominalInvalid
	} else {
		return stored, nil
	}
}

// Nominals in ascending order.
func (self *NominalGroup) Nominals() []Nominal {
	ns := make([]Nominal, 0, len(self.values))
	for n := range self.values {
		ns = append(ns, n)
	}
	sort.Slice(ns, func(i, j int) bool { return ns[i] < ns[j] })
	return ns
}

// Iter calls f for every valid nominal in ascending order, including zero counts.
func (self *NominalGroup) Iter(f func(nominal Nominal, count uint) error) error {
	for _, nominal := range self.Nominals() {
		if err := f(nominal, self.values[nominal]); err != nil {
			return err
		}
	}
	return nil
}

// ToMap is used for telemetry.
func (self *NominalGroup) ToMap() map[uint32]uint32 {
	m := make(map[uint32]uint32, len(self.values))
	for n, c := range self.values {
		m[uint32(n)] = uint32(c)
	}
	return m
}

func (self *NominalGroup) Total() Amount {
	sum := Amount(0)
	for nominal, count := range self.values {
		sum += Amount(nominal) * Amount(count)
	}
	return sum
}

func (self *NominalGroup) String() string {
	parts := make([]string, 0, len(self.values)+1)
	_ = self.Iter(func(nominal Nominal, count uint) error {
		if count > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", Amount(nominal).Format100I(), count))
		}
		return nil
	})
	parts = append(parts, fmt.Sprintf("total:%s", self.Total().Format100I()))
	return strings.Join(parts, ",")
}
