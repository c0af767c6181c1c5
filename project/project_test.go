package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProject_SimpleLeaf(t *testing.T) {
	got := Project("_CALLSIGN_(*Southwest 578*)")
	assert.Equal(t, `{"CALLSIGN":"Southwest 578"}`, got)
}

func TestProject_NestedObjectCollapsesSingletonLeaves(t *testing.T) {
	got := Project("_ALTITUDECHANGE_(_CLIMB_(*5000*))")
	assert.Equal(t, `{"ALTITUDECHANGE":{"CLIMB":"5000"}}`, got)
}

func TestCollapseDuplicateKeyNesting(t *testing.T) {
	got := collapseDuplicateKeyNesting(`"CLEARED":{"CLEARED":{"role":"x"}}`)
	assert.Equal(t, `"CLEARED":{"role":"x"}`, got)
}

func TestMergeFunctionWords(t *testing.T) {
	got := mergeFunctionWords(`"the":{"runway":{"side":"left"}}`)
	assert.Equal(t, `"the runway":{"side":"left"}`, got)
}

func TestMergeFunctionWords_DeeperNestingAndSiblingKeys(t *testing.T) {
	got := mergeFunctionWords(`"the":{"runway":{"side":{"of":"left"}},"heading":"090"}`)
	assert.Equal(t, `"the runway":{"side":{"of":"left"}},"heading":"090"`, got)
}

func TestMergeFunctionWords_MultipleWordsInOneBody(t *testing.T) {
	got := mergeFunctionWords(`"have":{"clearance":{"for":{"takeoff":{"on":"1"}}}}`)
	assert.Equal(t, `"have clearance":{"for":{"takeoff":{"on":"1"}}}`, got)
}

func TestDisambiguateKeys(t *testing.T) {
	got := disambiguateKeys(`{"PLACE":"atlanta","PLACE":"boston"}`)
	assert.Equal(t, `{"PLACE":"atlanta","PLACE_1":"boston"}`, got)
}

func TestStripSingletonWrappers_CascadesThroughNesting(t *testing.T) {
	got := stripSingletonWrappers(`{{"x"}}`)
	assert.Equal(t, `"x"`, got)
}

func TestStripTrailingJunk(t *testing.T) {
	got := stripTrailingJunk(`{"k":"v",}`)
	assert.Equal(t, `{"k":"v"}`, got)
}
