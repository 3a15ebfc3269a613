package gentests

import (
	"testing"

	"github.com/vic/alienvm/cmd/gentests/helper"
)

const program = "main = ap car ap ap cons 1 2"
const expected = "1"

func Test_030_car_Scenario(t *testing.T) {
	gentests.CheckScenario(t, "030_car", program, expected)
}
