package room

import (
	"lastcard/internal/server/storage"
)

// ToData 转换为可持久化的房间数据
func (r *Room) ToData() *storage.RoomData {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data := &storage.RoomData{
		Code:        r.Code,
		State:       int(r.State),
		PlayerOrder: append([]string(nil), r.order...),
		CreatedAt:   r.CreatedAt.Unix(),
	}

	data.Players = make([]storage.PlayerData, 0, len(r.order))
	for _, id := range r.order {
		p := r.players[id]
		data.Players = append(data.Players, storage.PlayerData{
			ID:    p.ID,
			Name:  p.Name,
			Seat:  p.Seat,
			Ready: p.Ready,
		})
	}
	return data
}
