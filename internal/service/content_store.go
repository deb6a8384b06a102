package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/folio/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound 在指定记录不存在时返回
	ErrNotFound = errors.New("record not found")
	// ErrInvalidInput 在必填项缺失或取值非法时返回
	ErrInvalidInput = errors.New("invalid input")
)

type keyed interface {
	Key() uint
	SetKey(id uint)
}

// ListEntry 约束列表类内容模型（带 order_index）。
type ListEntry[T any] interface {
	*T
	keyed
	GetOrderIndex() int
	SetOrderIndex(index int)
}

// SectionEntry 约束单例内容模型。
type SectionEntry[T any] interface {
	*T
	keyed
}

// Rules 描述某类内容写入前的清洗与校验。
type Rules[P any] struct {
	Normalize func(P)
	Validate  func(P) error
}

func (r Rules[P]) apply(item P) error {
	if r.Normalize != nil {
		r.Normalize(item)
	}
	if r.Validate != nil {
		return r.Validate(item)
	}
	return nil
}

// Collection 是单张列表内容表的增删改查封装。
// 表尚未创建时 List 返回空切片，而不是错误。
type Collection[T any, P ListEntry[T]] struct {
	db    *gorm.DB
	name  string
	rules Rules[P]
}

// NewCollection 构造 Collection，name 仅用于错误信息与日志。
func NewCollection[T any, P ListEntry[T]](gdb *gorm.DB, name string, rules Rules[P]) *Collection[T, P] {
	return &Collection[T, P]{db: gdb, name: name, rules: rules}
}

// Name 返回集合名称。
func (c *Collection[T, P]) Name() string {
	return c.name
}

// List 按 order_index 升序返回全部记录，结果从不为 nil。
func (c *Collection[T, P]) List(ctx context.Context) ([]T, error) {
	var items []T
	err := c.db.WithContext(ctx).Order("order_index ASC").Order("id ASC").Find(&items).Error
	if err != nil {
		if db.IsMissingTable(err) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Get 根据主键获取记录
func (c *Collection[T, P]) Get(ctx context.Context, id uint) (*T, error) {
	var item T
	if err := c.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || db.IsMissingTable(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", c.name, err)
	}
	return &item, nil
}

// Create 新建记录；order 为 nil 时追加到末尾。
func (c *Collection[T, P]) Create(ctx context.Context, item T, order *int) (*T, error) {
	p := P(&item)
	p.SetKey(0)
	if err := c.rules.apply(p); err != nil {
		return nil, err
	}

	gdb := c.db.WithContext(ctx)
	if order != nil {
		p.SetOrderIndex(*order)
	} else {
		next, err := c.nextOrder(gdb)
		if err != nil {
			return nil, err
		}
		p.SetOrderIndex(next)
	}

	if err := gdb.Create(p).Error; err != nil {
		return nil, fmt.Errorf("create %s: %w", c.name, err)
	}
	return &item, nil
}

// Update 用 item 整体覆盖指定记录；order 为 nil 时保留原排序。
func (c *Collection[T, P]) Update(ctx context.Context, id uint, item T, order *int) (*T, error) {
	p := P(&item)
	if err := c.rules.apply(p); err != nil {
		return nil, err
	}

	var updated T
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing T
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) || db.IsMissingTable(err) {
				return ErrNotFound
			}
			return err
		}

		p.SetKey(id)
		if order != nil {
			p.SetOrderIndex(*order)
		} else {
			p.SetOrderIndex(P(&existing).GetOrderIndex())
		}

		if err := tx.Model(&existing).Select("*").Omit("id", "created_at").Updates(p).Error; err != nil {
			return err
		}
		return tx.First(&updated, id).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update %s: %w", c.name, err)
	}
	return &updated, nil
}

// Delete 删除指定记录，兄弟记录的 order_index 保持不变。
func (c *Collection[T, P]) Delete(ctx context.Context, id uint) error {
	result := c.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		if db.IsMissingTable(result.Error) {
			return ErrNotFound
		}
		return fmt.Errorf("delete %s: %w", c.name, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *Collection[T, P]) nextOrder(gdb *gorm.DB) (int, error) {
	var maxOrder int
	if err := gdb.Model(new(T)).Select("COALESCE(MAX(order_index), -1)").Scan(&maxOrder).Error; err != nil {
		return 0, fmt.Errorf("resolve %s order: %w", c.name, err)
	}
	return maxOrder + 1, nil
}

// Section 是单例内容表的读取与保存封装，表中始终至多一行。
type Section[T any, P SectionEntry[T]] struct {
	db    *gorm.DB
	name  string
	rules Rules[P]
}

// NewSection 构造 Section。
func NewSection[T any, P SectionEntry[T]](gdb *gorm.DB, name string, rules Rules[P]) *Section[T, P] {
	return &Section[T, P]{db: gdb, name: name, rules: rules}
}

// Name 返回区块名称。
func (s *Section[T, P]) Name() string {
	return s.name
}

// Get 返回唯一一行；表不存在或尚无数据时返回 nil, nil。
func (s *Section[T, P]) Get(ctx context.Context) (*T, error) {
	var item T
	if err := s.db.WithContext(ctx).Order("id ASC").First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || db.IsMissingTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", s.name, err)
	}
	return &item, nil
}

// Save 先检查是否已有记录：存在则原地覆盖，不存在则以固定主键创建。
func (s *Section[T, P]) Save(ctx context.Context, item T) (*T, error) {
	p := P(&item)
	if err := s.rules.apply(p); err != nil {
		return nil, err
	}

	var saved T
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing T
		err := tx.Order("id ASC").First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			p.SetKey(db.SingletonID)
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(p).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			p.SetKey(P(&existing).Key())
			if err := tx.Model(&existing).Select("*").Omit("id", "created_at").Updates(p).Error; err != nil {
				return err
			}
		}
		return tx.First(&saved, p.Key()).Error
	})
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", s.name, err)
	}
	return &saved, nil
}
