package math

import "testing"

func TestAABBExtend(t *testing.T) {
	b := EmptyAABB()
	if !b.IsEmpty() {
		t.Fatal("EmptyAABB() should be empty")
	}

	b = b.Extend(Vec3{1, 2, 3}).Extend(Vec3{-1, 0, 5})
	if b.Min != (Vec3{-1, 0, 3}) || b.Max != (Vec3{1, 2, 5}) {
		t.Errorf("Extend: got %v", b)
	}
	if b.Center() != (Vec3{0, 1, 4}) {
		t.Errorf("Center() = %v, want (0, 1, 4)", b.Center())
	}
}

func TestAABBExpand(t *testing.T) {
	b := PointAABB(Vec3{1, 1, 1}).Expand(0.5)
	want := AABB{Min: Vec3{0.5, 0.5, 0.5}, Max: Vec3{1.5, 1.5, 1.5}}
	if b != want {
		t.Errorf("Expand(0.5) = %v, want %v", b, want)
	}
}

func TestAABBOverlaps(t *testing.T) {
	a := AABB{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}
	tests := []struct {
		name  string
		other AABB
		want  bool
	}{
		{"inside", AABB{Min: Vec3{0.2, 0.2, 0.2}, Max: Vec3{0.4, 0.4, 0.4}}, true},
		{"touching", AABB{Min: Vec3{1, 0, 0}, Max: Vec3{2, 1, 1}}, true},
		{"apart", AABB{Min: Vec3{2, 2, 2}, Max: Vec3{3, 3, 3}}, false},
		{"empty", EmptyAABB(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAABBUnion(t *testing.T) {
	a := PointAABB(Vec3{0, 0, 0})
	b := PointAABB(Vec3{2, 2, 2})
	u := a.Union(b)
	if u.Min != a.Min || u.Max != b.Max {
		t.Errorf("Union() = %v", u)
	}
	if EmptyAABB().Union(a) != a {
		t.Error("union with an empty box should return the other box")
	}
}
