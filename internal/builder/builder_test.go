package builder

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/temirov/spooler/internal/random"
)

type sampleLabel string

type sampleChild struct {
	Title string
	Count int
}

type sampleEntity struct {
	ID         uuid.UUID
	Name       string
	Label      sampleLabel
	Enabled    bool
	Small      int8
	Unsigned   uint16
	Ratio      float64
	Payload    []byte
	Created    time.Time
	Modified   *time.Time
	Counts     [3]int
	Child      sampleChild
	Parent     *sampleChild
	Children   []sampleChild
	Tags       map[string]int
	Ignored    string `builder:"-"`
	Callback   func()
	Anything   any
	Events     chan int
	unexported string
}

func newSampleBuilder(seed uint64) *Builder[sampleEntity] {
	return New[sampleEntity](random.NewGeneratorAt(seed, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestBuildWithoutRandomPropsReturnsFactoryValue(t *testing.T) {
	t.Parallel()

	plain := newSampleBuilder(1).Build()
	if diff := cmp.Diff(sampleEntity{}, plain, cmp.AllowUnexported(sampleEntity{}), cmp.Comparer(func(a, b func()) bool { return a == nil && b == nil })); diff != "" {
		t.Fatalf("expected zero value (-want +got):\n%s", diff)
	}

	withFactory := New[sampleEntity](random.NewGenerator(1), WithFactory(func() sampleEntity {
		return sampleEntity{Name: "factory", Enabled: true}
	})).Build()
	if withFactory.Name != "factory" || !withFactory.Enabled {
		t.Fatalf("expected factory value, got %+v", withFactory)
	}
}

func TestWithRandomPropsFillsSupportedFields(t *testing.T) {
	t.Parallel()

	entity := newSampleBuilder(2).WithRandomProps().Build()

	if entity.ID == uuid.Nil {
		t.Fatalf("expected random uuid")
	}
	if len(entity.Name) < minStringLength || len(entity.Name) > maxStringLength {
		t.Fatalf("unexpected name %q", entity.Name)
	}
	if entity.Label == "" {
		t.Fatalf("expected named string type to be filled")
	}
	if entity.Small < 1 {
		t.Fatalf("expected positive int8, got %d", entity.Small)
	}
	if entity.Unsigned < 1 || entity.Unsigned > maxRandomInteger {
		t.Fatalf("unexpected uint16 %d", entity.Unsigned)
	}
	if len(entity.Payload) < minPayloadLength {
		t.Fatalf("expected payload, got %d bytes", len(entity.Payload))
	}
	if entity.Created.IsZero() {
		t.Fatalf("expected created time")
	}
	if entity.Modified == nil || entity.Modified.IsZero() {
		t.Fatalf("expected pointer time to be allocated")
	}
	if entity.Child.Title == "" || entity.Child.Count == 0 {
		t.Fatalf("expected nested struct to be filled, got %+v", entity.Child)
	}
	for index, count := range entity.Counts {
		if count < 1 || count > maxRandomInteger {
			t.Fatalf("expected array element %d to be filled, got %d", index, count)
		}
	}
	if entity.Parent == nil || entity.Parent.Title == "" || entity.Parent.Count == 0 {
		t.Fatalf("expected pointer to struct to be allocated and filled, got %+v", entity.Parent)
	}
	if entity.Children != nil || entity.Tags != nil {
		t.Fatalf("collections should stay nil without WithFilledCollections")
	}
	if entity.Ignored != "" {
		t.Fatalf("tagged field should be skipped")
	}
	if entity.unexported != "" {
		t.Fatalf("unexported field should be skipped")
	}
	if entity.Callback != nil {
		t.Fatalf("func field should be skipped")
	}
	if entity.Anything != nil {
		t.Fatalf("interface field should be skipped, got %v", entity.Anything)
	}
	if entity.Events != nil {
		t.Fatalf("chan field should be skipped")
	}
}

func TestWithFilledCollectionsPopulatesSlicesAndMaps(t *testing.T) {
	t.Parallel()

	entity := newSampleBuilder(3).WithRandomProps().WithFilledCollections().Build()
	if len(entity.Children) < minCollectionLength || len(entity.Children) > maxCollectionLength {
		t.Fatalf("unexpected children length %d", len(entity.Children))
	}
	for _, child := range entity.Children {
		if child.Title == "" {
			t.Fatalf("expected filled child, got %+v", child)
		}
	}
	if len(entity.Tags) == 0 {
		t.Fatalf("expected filled map")
	}
}

func TestPropsApplyAfterRandomizersInOrder(t *testing.T) {
	t.Parallel()

	var calls []string
	builderInstance := New[sampleEntity](random.NewGenerator(4),
		WithDefaultRandomizer[sampleEntity](func(entity *sampleEntity, _ *random.Generator) {
			calls = append(calls, "default")
			entity.Name = "randomized"
		}),
	).
		WithRandomizer(func(entity *sampleEntity, _ *random.Generator) {
			calls = append(calls, "extra")
		}).
		WithProp(func(entity *sampleEntity) {
			calls = append(calls, "first")
			entity.Name = "first"
		}).
		WithProp(func(entity *sampleEntity) {
			calls = append(calls, "second")
			entity.Name += "-second"
		}).
		WithRandomProps()

	entity := builderInstance.Build()
	if entity.Name != "first-second" {
		t.Fatalf("expected props to win, got %q", entity.Name)
	}
	if diff := cmp.Diff([]string{"default", "extra", "first", "second"}, calls); diff != "" {
		t.Fatalf("unexpected call order (-want +got):\n%s", diff)
	}
}

func TestRandomizersDoNotRunWithoutRandomProps(t *testing.T) {
	t.Parallel()

	ran := false
	entity := New[sampleEntity](random.NewGenerator(5),
		WithDefaultRandomizer[sampleEntity](func(*sampleEntity, *random.Generator) { ran = true }),
	).WithProp(func(entity *sampleEntity) { entity.Name = "explicit" }).Build()

	if ran {
		t.Fatalf("randomizer should only run for random builds")
	}
	if entity.Name != "explicit" || entity.ID != uuid.Nil {
		t.Fatalf("unexpected entity %+v", entity)
	}
}

func TestSameSeedBuildsSameEntity(t *testing.T) {
	t.Parallel()

	first := newSampleBuilder(6).WithRandomProps().WithFilledCollections().Build()
	second := newSampleBuilder(6).WithRandomProps().WithFilledCollections().Build()

	options := cmp.Options{
		cmp.AllowUnexported(sampleEntity{}),
		cmp.Comparer(func(a, b func()) bool { return a == nil && b == nil }),
	}
	if diff := cmp.Diff(first, second, options); diff != "" {
		t.Fatalf("same seed produced different entities (-first +second):\n%s", diff)
	}
}

func TestBuildManyProducesDistinctEntities(t *testing.T) {
	t.Parallel()

	entities := newSampleBuilder(7).WithRandomProps().BuildMany(5)
	if len(entities) != 5 {
		t.Fatalf("expected five entities, got %d", len(entities))
	}
	seen := make(map[uuid.UUID]struct{})
	for _, entity := range entities {
		if _, duplicate := seen[entity.ID]; duplicate {
			t.Fatalf("duplicate id %s", entity.ID)
		}
		seen[entity.ID] = struct{}{}
	}
	if newSampleBuilder(7).BuildMany(0) != nil {
		t.Fatalf("expected nil for zero count")
	}
}

func TestBuildDefaultAndBuildRandom(t *testing.T) {
	t.Parallel()

	builderInstance := New[sampleEntity](random.NewGenerator(8), WithFactory(func() sampleEntity {
		return sampleEntity{Enabled: true}
	})).WithProp(func(entity *sampleEntity) { entity.Name = "override" })

	defaulted := builderInstance.BuildDefault()
	if !defaulted.Enabled || defaulted.Name != "" {
		t.Fatalf("BuildDefault should ignore props, got %+v", defaulted)
	}

	randomized := builderInstance.BuildRandom()
	if randomized.ID == uuid.Nil {
		t.Fatalf("BuildRandom should fill fields")
	}
	if randomized.Name != "override" {
		t.Fatalf("BuildRandom should still apply props, got %q", randomized.Name)
	}
}

func TestBuildRandomLeavesBuilderUnchanged(t *testing.T) {
	t.Parallel()

	builderInstance := New[sampleEntity](random.NewGenerator(11), WithFactory(func() sampleEntity {
		return sampleEntity{Enabled: true}
	}))

	if randomized := builderInstance.BuildRandom(); randomized.ID == uuid.Nil {
		t.Fatalf("BuildRandom should fill fields")
	}

	plain := builderInstance.Build()
	if plain.ID != uuid.Nil || plain.Name != "" || !plain.Enabled {
		t.Fatalf("Build after BuildRandom should return the factory value, got %+v", plain)
	}
}

func TestMaxDepthStopsNestedFilling(t *testing.T) {
	t.Parallel()

	type node struct {
		Value string
		Next  *node
	}

	root := New[node](random.NewGenerator(9), WithMaxDepth[node](1)).WithRandomProps().Build()
	if root.Value == "" {
		t.Fatalf("expected root value")
	}
	if root.Next != nil {
		t.Fatalf("expected pointer at the depth limit to stay nil")
	}

	deeper := New[node](random.NewGenerator(9), WithMaxDepth[node](3)).WithRandomProps().Build()
	if deeper.Next == nil || deeper.Next.Value == "" {
		t.Fatalf("expected one nested node to be filled")
	}
}

func TestMaxDepthCountsStructLevels(t *testing.T) {
	t.Parallel()

	type node struct {
		Value string
		Next  *node
	}

	chainLength := func(root node) int {
		length := 0
		for current := root.Next; current != nil; current = current.Next {
			if current.Value == "" {
				t.Fatalf("expected nested node value to be filled")
			}
			length++
		}
		return length
	}

	testCases := []struct {
		name           string
		maxDepth       int
		expectedNested int
	}{
		{name: "depth one", maxDepth: 1, expectedNested: 0},
		{name: "depth two", maxDepth: 2, expectedNested: 1},
		{name: "depth three", maxDepth: 3, expectedNested: 2},
	}

	for _, testCase := range testCases {
		root := New[node](random.NewGenerator(12), WithMaxDepth[node](testCase.maxDepth)).WithRandomProps().Build()
		if nested := chainLength(root); nested != testCase.expectedNested {
			t.Fatalf("%s: expected %d nested nodes, got %d", testCase.name, testCase.expectedNested, nested)
		}
	}
}

func TestNonStructTargets(t *testing.T) {
	t.Parallel()

	if value := New[string](random.NewGenerator(10)).BuildRandom(); value == "" {
		t.Fatalf("expected random string")
	}
	if values := New[[]int](random.NewGenerator(10)).WithFilledCollections().BuildRandom(); len(values) == 0 {
		t.Fatalf("expected filled slice")
	}
}
