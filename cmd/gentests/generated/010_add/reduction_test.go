package gentests

import (
	"testing"

	"github.com/vic/alienvm/cmd/gentests/helper"
)

const program = "main = ap ap add 2 3"
const expected = "5"

func Test_010_add_Scenario(t *testing.T) {
	gentests.CheckScenario(t, "010_add", program, expected)
}
