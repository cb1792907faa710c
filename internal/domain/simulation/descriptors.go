package simulation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/factorysim-go/internal/domain/facility"
	"github.com/andrescamacho/factorysim-go/internal/domain/grid"
	"github.com/andrescamacho/factorysim-go/internal/domain/production"
	"github.com/andrescamacho/factorysim-go/internal/domain/shared"
)

const missingInfo = "Missing required field(s) in 'info'"

// Descriptor describes a building to create at runtime. Info is decoded according to Type.
type Descriptor struct {
	Type string          `json:"type" validate:"required"`
	Name string          `json:"name" validate:"required"`
	Info json.RawMessage `json:"info"`
}

type storageInfo struct {
	Stores     *string         `json:"stores" validate:"required"`
	Capacity   *int            `json:"capacity" validate:"required"`
	Priority   *float64        `json:"priority" validate:"required"`
	Coordinate json.RawMessage `json:"coordinate" validate:"required"`
}

type mineInfo struct {
	Mine       *string         `json:"mine" validate:"required"`
	Coordinate json.RawMessage `json:"coordinate" validate:"required"`
}

type factoryInfo struct {
	Type       *string         `json:"type" validate:"required"`
	Recipes    []string        `json:"recipes"`
	Coordinate json.RawMessage `json:"coordinate" validate:"required"`
}

type dronePortInfo struct {
	Coordinate json.RawMessage `json:"coordinate" validate:"required"`
}

type wasteDisposalInfo struct {
	Capacity        *int            `json:"capacity" validate:"required"`
	DisposeAmount   *int            `json:"disposeAmount" validate:"required"`
	DisposeInterval *int            `json:"disposeInterval" validate:"required,gte=1"`
	WasteTypes      []string        `json:"wasteTypes" validate:"required"`
	Coordinate      json.RawMessage `json:"coordinate"`
}

var descriptorValidator = newDescriptorValidator()

func newDescriptorValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeInfo unmarshals raw into info and checks its required fields. A missing field and a
// field of the wrong JSON type both surface as a malformed descriptor.
func decodeInfo(raw json.RawMessage, info interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return shared.NewMalformedDescriptorError("info", missingInfo)
	}
	if err := json.Unmarshal(raw, info); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return shared.NewMalformedDescriptorError(typeErr.Field,
				fmt.Sprintf("'%s' must be a %s", typeErr.Field, typeErr.Type.Kind()))
		}
		return shared.NewMalformedDescriptorError("info", err.Error())
	}
	if err := descriptorValidator.Struct(info); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			if verrs[0].Tag() == "required" {
				return shared.NewMalformedDescriptorError(verrs[0].Field(), missingInfo)
			}
			return shared.NewMalformedDescriptorError(verrs[0].Field(),
				fmt.Sprintf("field '%s' failed validation: %s (value: '%v')", verrs[0].Field(), verrs[0].Tag(), verrs[0].Value()))
		}
		return err
	}
	return nil
}

// decodeCoordinate reads a [row, col] pair
func decodeCoordinate(raw json.RawMessage) (grid.Coordinate, error) {
	var pair []int
	if err := json.Unmarshal(raw, &pair); err != nil || len(pair) != 2 {
		return grid.Coordinate{}, shared.NewMalformedDescriptorError("coordinate",
			"'coordinate' must be an array of two integers")
	}
	return grid.NewCoordinate(pair[0], pair[1]), nil
}

// CreateBuilding builds a building from a JSON descriptor and adds it to the simulation
func (s *Simulation) CreateBuilding(raw []byte) (*facility.Building, error) {
	var d Descriptor
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, shared.NewMalformedDescriptorError("descriptor", err.Error())
	}
	return s.CreateFromDescriptor(d)
}

// CreateFromDescriptor is CreateBuilding for an already decoded descriptor
func (s *Simulation) CreateFromDescriptor(d Descriptor) (*facility.Building, error) {
	if err := descriptorValidator.Struct(d); err != nil {
		return nil, shared.NewMalformedDescriptorError("descriptor", "descriptor needs a 'type' and a 'name'")
	}

	var (
		b   *facility.Building
		err error
	)
	switch facility.Kind(d.Type) {
	case facility.KindStorage:
		b, err = s.storageFromInfo(d.Name, d.Info)
	case facility.KindMine:
		b, err = s.mineFromInfo(d.Name, d.Info)
	case facility.KindFactory:
		b, err = s.factoryFromInfo(d.Name, d.Info)
	case facility.KindDronePort:
		b, err = s.dronePortFromInfo(d.Name, d.Info)
	case facility.KindWasteDisposal:
		b, err = s.wasteDisposalFromInfo(d.Name, d.Info)
	default:
		return nil, shared.NewMalformedDescriptorError("type", fmt.Sprintf("Unknown building type: %s", d.Type))
	}
	if err != nil {
		return nil, err
	}
	if err := s.AddBuilding(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Simulation) storageFromInfo(name string, raw json.RawMessage) (*facility.Building, error) {
	var info storageInfo
	if err := decodeInfo(raw, &info); err != nil {
		return nil, err
	}
	recipe, ok := s.catalog.Recipe(*info.Stores)
	if !ok {
		return nil, shared.NewMalformedDescriptorError("stores", "invalid stores")
	}
	c, err := decodeCoordinate(info.Coordinate)
	if err != nil {
		return nil, err
	}
	b := facility.NewStorage(name, recipe, *info.Capacity, *info.Priority, s)
	b.Place(c)
	return b, nil
}

func (s *Simulation) mineFromInfo(name string, raw json.RawMessage) (*facility.Building, error) {
	var info mineInfo
	if err := decodeInfo(raw, &info); err != nil {
		return nil, err
	}
	recipe, ok := s.catalog.Recipe(*info.Mine)
	if !ok {
		return nil, shared.NewMalformedDescriptorError("mine", "invalid mine")
	}
	c, err := decodeCoordinate(info.Coordinate)
	if err != nil {
		return nil, err
	}
	b := facility.NewMine(name, recipe, s)
	b.Place(c)
	return b, nil
}

// factoryFromInfo uses a catalog factory type, or registers a new one when info lists its
// recipes inline
func (s *Simulation) factoryFromInfo(name string, raw json.RawMessage) (*facility.Building, error) {
	var info factoryInfo
	if err := decodeInfo(raw, &info); err != nil {
		return nil, err
	}
	var ft *production.FactoryType
	if info.Recipes == nil {
		existing, ok := s.catalog.FactoryType(*info.Type)
		if !ok {
			return nil, shared.NewMalformedDescriptorError("type", "invalid factory type")
		}
		ft = existing
	} else {
		if _, exists := s.catalog.FactoryType(*info.Type); exists {
			return nil, shared.NewMalformedDescriptorError("type", "type already existed")
		}
		recipes, err := s.lookupRecipes(info.Recipes)
		if err != nil {
			return nil, err
		}
		if ft, err = production.NewFactoryType(*info.Type, recipes); err != nil {
			return nil, err
		}
	}
	c, err := decodeCoordinate(info.Coordinate)
	if err != nil {
		return nil, err
	}
	if info.Recipes != nil {
		if err := s.catalog.AddFactoryType(ft); err != nil {
			return nil, err
		}
	}
	b := facility.NewFactory(name, ft, s)
	b.Place(c)
	return b, nil
}

func (s *Simulation) dronePortFromInfo(name string, raw json.RawMessage) (*facility.Building, error) {
	var info dronePortInfo
	if err := decodeInfo(raw, &info); err != nil {
		return nil, err
	}
	c, err := decodeCoordinate(info.Coordinate)
	if err != nil {
		return nil, err
	}
	b := facility.NewDronePort(name, s.opts.DronePortLimit, s.opts.DroneRange, s)
	b.Place(c)
	return b, nil
}

// wasteDisposalFromInfo auto-places the disposal when no coordinate is given
func (s *Simulation) wasteDisposalFromInfo(name string, raw json.RawMessage) (*facility.Building, error) {
	var info wasteDisposalInfo
	if err := decodeInfo(raw, &info); err != nil {
		return nil, err
	}
	wasteTypes, err := s.lookupRecipes(info.WasteTypes)
	if err != nil {
		return nil, err
	}
	b := facility.NewWasteDisposal(name, *info.Capacity, wasteTypes, *info.DisposeAmount, *info.DisposeInterval, s)
	if len(info.Coordinate) > 0 {
		c, err := decodeCoordinate(info.Coordinate)
		if err != nil {
			return nil, err
		}
		b.Place(c)
	}
	return b, nil
}

func (s *Simulation) lookupRecipes(names []string) ([]*production.Recipe, error) {
	out := make([]*production.Recipe, 0, len(names))
	for _, n := range names {
		r, ok := s.catalog.Recipe(n)
		if !ok {
			return nil, shared.NewMalformedDescriptorError("recipes", "recipe not exist")
		}
		out = append(out, r)
	}
	return out, nil
}
