package quadtree

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pixelfold/quadpress/pkg/raster"
)

// gridOf builds a grid from explicit rows, for readable test fixtures.
func gridOf(t *testing.T, max int, rows [][]int) *raster.Grid {
	t.Helper()
	g, err := raster.New(len(rows), max)
	if err != nil {
		t.Fatalf("grid setup failed: %v", err)
	}
	for r, row := range rows {
		for c, v := range row {
			g.Set(r, c, v)
		}
	}
	return g
}

// noisyGrid builds a deterministic pseudo-random grid with few uniform
// quadrants, so trees stay close to full size.
func noisyGrid(t *testing.T, side, max int, seed int64) *raster.Grid {
	t.Helper()
	g, err := raster.New(side, max)
	if err != nil {
		t.Fatalf("grid setup failed: %v", err)
	}
	rng := rand.New(rand.NewSource(seed))
	for r := 0; r < side; r++ {
		for c := 0; c < side; c++ {
			g.Set(r, c, rng.Intn(max+1))
		}
	}
	return g
}

func TestBuild_UniformGridFusesToSingleColor(t *testing.T) {
	g := gridOf(t, 10, [][]int{
		{7, 7, 7, 7},
		{7, 7, 7, 7},
		{7, 7, 7, 7},
		{7, 7, 7, 7},
	})

	tree, err := Build(g)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if tree.Count() != 1 {
		t.Errorf("expected node count 1, got %d", tree.Count())
	}
	if !tree.root.isColor() || tree.root.value != 7 {
		t.Errorf("expected a single Color(7) root, got %s", tree)
	}

	if delta := tree.CompressLambda(); delta != 0 {
		t.Errorf("lambda on a single color should be a no-op, got delta %d", delta)
	}
	delta, err := tree.CompressRho(50)
	if err != nil {
		t.Fatalf("rho failed: %v", err)
	}
	if delta != 0 {
		t.Errorf("rho on a single color should be a no-op, got delta %d", delta)
	}
}

func TestBuild_FuseOnConstruction(t *testing.T) {
	tree, err := Build(gridOf(t, 1, [][]int{{1, 1}, {1, 1}}))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if tree.Count() != 1 {
		t.Errorf("expected node count 1, got %d", tree.Count())
	}
	if got := tree.String(); got != "1" {
		t.Errorf("expected dump %q, got %q", "1", got)
	}
}

func TestBuild_TwigAndLambdaCollapse(t *testing.T) {
	tree, err := Build(gridOf(t, 10, [][]int{{0, 10}, {10, 10}}))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if tree.Count() != 5 {
		t.Fatalf("expected node count 5, got %d", tree.Count())
	}
	if !tree.root.isTwig() {
		t.Fatal("expected the root to be a twig")
	}
	if got := tree.String(); got != "(0 10 10 10)" {
		t.Errorf("expected dump %q, got %q", "(0 10 10 10)", got)
	}

	want := int(math.Round(math.Exp((math.Log(0.1) + 3*math.Log(10.1)) / 4)))

	delta := tree.CompressLambda()
	if delta != -4 {
		t.Errorf("expected delta -4, got %d", delta)
	}
	if tree.Count() != 1 {
		t.Errorf("expected node count 1 after lambda, got %d", tree.Count())
	}
	if !tree.root.isColor() || tree.root.value != want {
		t.Errorf("expected Color(%d), got %s", want, tree)
	}
}

func TestBuild_RejectsInvalidGrid(t *testing.T) {
	g, err := raster.New(2, 5)
	if err != nil {
		t.Fatal(err)
	}
	g.Set(0, 1, 6) // above declared maximum
	if _, err := Build(g); err == nil {
		t.Error("expected build to reject an out-of-range pixel")
	}
}

func TestGrid_RoundTrip(t *testing.T) {
	g := noisyGrid(t, 16, 255, 7)
	tree, err := Build(g)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !tree.Grid().Equal(g) {
		t.Error("uncompressed tree did not reproduce its source grid")
	}
}

func TestCount_MatchesIndependentRecount(t *testing.T) {
	for _, seed := range []int64{1, 2, 3} {
		tree, err := Build(noisyGrid(t, 8, 31, seed))
		if err != nil {
			t.Fatalf("build failed: %v", err)
		}
		if got := tree.root.count(); got != tree.Count() {
			t.Errorf("seed %d: reported count %d, recount %d", seed, tree.Count(), got)
		}
	}
}

func TestFuse_Idempotence(t *testing.T) {
	color := &node{kind: colorNode, value: 3}
	if color.fuse() {
		t.Error("fuse on a color must be a no-op")
	}

	tree, err := Build(gridOf(t, 10, [][]int{{0, 10}, {10, 10}}))
	if err != nil {
		t.Fatal(err)
	}
	before := tree.String()
	if tree.root.fuse() {
		t.Error("fuse on an area with differing children must be a no-op")
	}
	if got := tree.String(); got != before {
		t.Errorf("fuse changed the structure: %q -> %q", before, got)
	}
}

func TestCompressLambda_ReachesSingleColor(t *testing.T) {
	tree, err := Build(noisyGrid(t, 16, 255, 11))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	for i := 0; tree.Count() > 1; i++ {
		if i > 16 {
			t.Fatal("lambda compression did not terminate")
		}
		before := tree.Count()
		delta := tree.CompressLambda()
		if delta >= 0 {
			t.Fatalf("lambda on a non-trivial tree must strictly shrink, got delta %d", delta)
		}
		if tree.Count() != before+delta {
			t.Fatalf("count %d inconsistent with delta %d from %d", tree.Count(), delta, before)
		}
		if got := tree.root.count(); got != tree.Count() {
			t.Fatalf("reported count %d, recount %d", tree.Count(), got)
		}
	}

	if !tree.root.isColor() {
		t.Error("fully compressed tree should be a single color")
	}
}

func TestLogarithmicMean_SelfSimilar(t *testing.T) {
	tree, err := Build(gridOf(t, 20, [][]int{
		{1, 2, 5, 5},
		{3, 4, 5, 5},
		{8, 8, 9, 12},
		{8, 8, 11, 10},
	}))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	// Root mean recurses through the children's own means.
	var sum float64
	for _, k := range tree.root.kids {
		sum += math.Log(logOffset + k.logMean())
	}
	want := math.Exp(sum / 4)

	got, ok := tree.LogarithmicMean()
	if !ok {
		t.Fatal("mean of a non-empty tree should exist")
	}
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("logarithmic mean %v, want %v", got, want)
	}
}

func TestEpsilon_ColorIsZero(t *testing.T) {
	tree, err := Build(gridOf(t, 9, [][]int{{4, 4}, {4, 4}}))
	if err != nil {
		t.Fatal(err)
	}
	eps, ok := tree.Epsilon()
	if !ok || eps != 0 {
		t.Errorf("epsilon of a single color should be 0, got %v (ok=%v)", eps, ok)
	}
}

func TestEmptyTree_Queries(t *testing.T) {
	var tree Tree
	if _, ok := tree.Epsilon(); ok {
		t.Error("epsilon of an empty tree should report no value")
	}
	if _, ok := tree.LogarithmicMean(); ok {
		t.Error("mean of an empty tree should report no value")
	}
	if got := tree.String(); got != "()" {
		t.Errorf("empty dump should be %q, got %q", "()", got)
	}
	if delta := tree.CompressLambda(); delta != 0 {
		t.Errorf("lambda on an empty tree should be a no-op, got %d", delta)
	}
}

func TestCollapse_PanicsOnNonTwig(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("collapse on a non-twig should panic")
		}
	}()
	n := &node{kind: colorNode, value: 1}
	n.collapse()
}
