package core

// UnitID is the dense index of a linguistic/acoustic unit inside a tree's
// unit domain. Leaf sets are bitmaps over UnitIDs.
type UnitID uint32

// MaxUnitID is the largest representable UnitID. The on-disk format stores
// domain bounds as int32, so usable domains are smaller.
const MaxUnitID = ^UnitID(0)

// FeatureID identifies a question feature inside a MetaCart. Expression
// terminals are FeatureIDs.
type FeatureID int32
