package gentests

import (
	"testing"

	"github.com/vic/alienvm/cmd/gentests/helper"
)

const program = "main = ap ap eq 1 1"
const expected = "t"

func Test_014_eq_Scenario(t *testing.T) {
	gentests.CheckScenario(t, "014_eq", program, expected)
}
