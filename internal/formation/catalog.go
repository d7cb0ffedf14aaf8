// Package formation is the read-only catalog of aircraft placements and
// three-aircraft formation groups.
//
// Plane ids 1..288 name every placement of the ten-cell aircraft on the
// 12x12 board. Group ids 0..942031 name every set of three placements that do
// not overlap. Both tables are derived from the board geometry once per
// process and never change.
package formation

//go:generate mockgen -destination=mock/mock_catalog.go -package=formationmock github.com/KirkDiggler/skywar-api/internal/formation Catalog

import (
	"sort"
	"sync"

	"github.com/KirkDiggler/skywar-api/internal/entities"
	"github.com/KirkDiggler/skywar-api/internal/errors"
	"github.com/KirkDiggler/skywar-api/internal/pkg/random"
)

// Catalog resolves submitted shapes to canonical plane and group ids
type Catalog interface {
	// ResolvePlaneID maps one submitted aircraft to its plane id
	ResolvePlaneID(shape entities.PlaneShape) (int, error)

	// ResolveGroupID maps three plane ids to the group id
	ResolveGroupID(planeIDs [3]int) (int, error)

	// HeadAndBody returns the head and body cells of each aircraft in a group
	HeadAndBody(groupID int) (*entities.FormationGroup, error)

	// ResolveFormation maps a whole submitted formation to its group id
	ResolveFormation(formation entities.Formation) (int, error)

	// Formation rebuilds the submittable shapes of a group
	Formation(groupID int) (entities.Formation, error)

	// RandomGroupID draws a uniformly random group id
	RandomGroupID(src random.Source) (int, error)

	// GroupCount is the number of valid group ids
	GroupCount() int
}

type headKey struct {
	direction entities.Direction
	head      int
}

type catalog struct {
	planes []plane
	byHead map[headKey]int
	groups []group
}

var (
	sharedOnce sync.Once
	shared     *catalog
)

// New returns the process-wide catalog, building it on first use
func New() Catalog {
	sharedOnce.Do(func() {
		shared = build()
	})
	return shared
}

func build() *catalog {
	planes := enumeratePlanes()
	byHead := make(map[headKey]int, len(planes))
	for i, p := range planes {
		byHead[headKey{direction: p.direction, head: p.head}] = i
	}
	return &catalog{
		planes: planes,
		byHead: byHead,
		groups: enumerateGroups(planes),
	}
}

func (c *catalog) GroupCount() int {
	return len(c.groups)
}

func (c *catalog) ResolvePlaneID(shape entities.PlaneShape) (int, error) {
	if !shape.Direction.Valid() {
		return 0, errors.InvalidArgumentf("direction %d is invalid", shape.Direction).
			WithReason(errors.ReasonUnknownShape)
	}
	if len(shape.Points) != entities.CellsPerPlane {
		return 0, errors.InvalidArgumentf("aircraft must have %d cells, got %d",
			entities.CellsPerPlane, len(shape.Points)).
			WithReason(errors.ReasonUnknownShape)
	}

	var submitted cellMask
	head := 0
	for _, pt := range shape.Points {
		if !entities.ValidCell(pt.Cell) {
			return 0, errors.InvalidArgumentf("cell %d is off the board", pt.Cell).
				WithReason(errors.ReasonInvalidCells)
		}
		if pt.IsHead {
			if head != 0 {
				return 0, errors.InvalidArgument("aircraft has more than one head").
					WithReason(errors.ReasonUnknownShape)
			}
			head = pt.Cell
		}
		submitted.set(pt.Cell)
	}
	if head == 0 {
		return 0, errors.InvalidArgument("aircraft has no head").
			WithReason(errors.ReasonUnknownShape)
	}

	idx, ok := c.byHead[headKey{direction: shape.Direction, head: head}]
	if !ok || c.planes[idx].mask != submitted {
		return 0, errors.NotFoundf("no aircraft placement matches head %d facing %d", head, shape.Direction).
			WithReason(errors.ReasonUnknownShape)
	}
	return c.planes[idx].id, nil
}

func (c *catalog) ResolveGroupID(planeIDs [3]int) (int, error) {
	ids := planeIDs[:]
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)

	var want group
	for i, id := range sorted {
		if id < 1 || id > len(c.planes) {
			return 0, errors.NotFoundf("plane %d does not exist", id).
				WithReason(errors.ReasonUnknownShape)
		}
		want[i] = uint16(id)
	}

	groupID, ok := search(c.groups, want)
	if !ok {
		return 0, errors.NotFoundf("planes %v do not form a valid group", sorted).
			WithReason(errors.ReasonUnknownShape)
	}
	return groupID, nil
}

func (c *catalog) HeadAndBody(groupID int) (*entities.FormationGroup, error) {
	if groupID < 0 || groupID >= len(c.groups) {
		return nil, errors.NotFoundf("group %d does not exist", groupID)
	}

	g := c.groups[groupID]
	out := &entities.FormationGroup{GroupID: groupID}
	for i, id := range g {
		out.Planes[i] = c.planes[id-1].layout()
	}
	return out, nil
}

func (c *catalog) ResolveFormation(formation entities.Formation) (int, error) {
	if len(formation.Planes) != entities.PlanesPerFormation {
		return 0, errors.InvalidArgumentf("formation must have %d aircraft, got %d",
			entities.PlanesPerFormation, len(formation.Planes)).
			WithReason(errors.ReasonUnknownShape)
	}

	var ids [3]int
	for i, shape := range formation.Planes {
		id, err := c.ResolvePlaneID(shape)
		if err != nil {
			return 0, errors.WrapWithCodef(err, errors.CodeInvalidArgument, "aircraft %d", i+1)
		}
		ids[i] = id
	}

	groupID, err := c.ResolveGroupID(ids)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.CodeInvalidArgument, "aircraft overlap")
	}
	return groupID, nil
}

func (c *catalog) Formation(groupID int) (entities.Formation, error) {
	group, err := c.HeadAndBody(groupID)
	if err != nil {
		return entities.Formation{}, err
	}

	out := entities.Formation{Planes: make([]entities.PlaneShape, 0, len(group.Planes))}
	for _, p := range group.Planes {
		shape, ok := Shape(p.Direction, p.Head)
		if !ok {
			return entities.Formation{}, errors.Internalf("plane %d has no shape", p.PlaneID)
		}
		out.Planes = append(out.Planes, shape)
	}
	return out, nil
}

func (c *catalog) RandomGroupID(src random.Source) (int, error) {
	id, err := src.Intn(len(c.groups))
	if err != nil {
		return 0, errors.Wrap(err, "failed to draw a formation group")
	}
	return id, nil
}
