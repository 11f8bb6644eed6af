package staff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaff_Allocation(t *testing.T) {
	assert.Equal(t, DefaultEntitlement, Staff{ID: "S1"}.Allocation())

	custom := Entitlement{Annual: 20, Casual: 5, Medical: 10, Other: 2}
	assert.Equal(t, custom, Staff{ID: "S2", Entitlement: &custom}.Allocation())
}
