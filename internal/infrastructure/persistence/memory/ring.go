package memory

import "ai-content-gen-api/internal/domain/entity"

// ring 固定容量环形缓冲，head 指向最新记录
type ring struct {
	buf  []*entity.GeneratedItem
	head int
	size int
}

func newRing(capacity int) *ring {
	return &ring{buf: make([]*entity.GeneratedItem, capacity)}
}

// pushFront 插入到最前，满时覆盖最旧记录
func (r *ring) pushFront(item *entity.GeneratedItem) {
	n := len(r.buf)
	r.head = (r.head - 1 + n) % n
	r.buf[r.head] = item
	if r.size < n {
		r.size++
	}
}

// items 按最新在前的顺序返回副本
func (r *ring) items() []*entity.GeneratedItem {
	out := make([]*entity.GeneratedItem, 0, r.size)
	for i := 0; i < r.size; i++ {
		out = append(out, r.buf[(r.head+i)%len(r.buf)])
	}
	return out
}

func (r *ring) find(id string) *entity.GeneratedItem {
	for i := 0; i < r.size; i++ {
		if item := r.buf[(r.head+i)%len(r.buf)]; item.ID == id {
			return item
		}
	}
	return nil
}
