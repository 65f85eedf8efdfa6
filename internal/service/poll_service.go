package service

import (
	"Hearth/internal/api/dto"
	"Hearth/internal/model"
	"Hearth/internal/pkg/metrics"
	"Hearth/internal/repository"
	"context"
	log "log/slog"
	"math"
	"time"
)

type PollService interface {
	Vote(ctx context.Context, postID, optionID, actorID uint64) error
	GetMyVote(ctx context.Context, postID, actorID uint64) (*uint64, error)
	Tally(ctx context.Context, postID uint64) ([]*model.OptionTally, int64, error)
	GetPollView(ctx context.Context, postID, viewerID uint64) (*dto.PollDTO, error)
}

type PollServiceImpl struct {
	tx       repository.TxManager
	pollRepo repository.PollRepo
	postRepo repository.PostRepo
}

func NewPollService(tx repository.TxManager, pollRepo repository.PollRepo, postRepo repository.PostRepo) PollService {
	return &PollServiceImpl{
		tx:       tx,
		pollRepo: pollRepo,
		postRepo: postRepo,
	}
}

// Vote 首次投票直接插入，改投时旧票打墓碑后插入新票
func (s *PollServiceImpl) Vote(ctx context.Context, postID, optionID, actorID uint64) error {
	if postID == 0 || optionID == 0 || actorID == 0 {
		return ErrParamInvalid
	}

	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.livePoll(ctx, postID, true); err != nil {
			return err
		}

		option, err := s.pollRepo.GetOption(ctx, optionID)
		if err != nil {
			return err
		}
		if option == nil {
			return ErrOptionNotFound
		}
		if option.PostID != postID {
			return ErrOptionNotInPost
		}
		if option.IsDeleted {
			return ErrOptionNotFound
		}

		current, err := s.pollRepo.GetLiveVote(ctx, actorID, postID)
		if err != nil {
			return err
		}
		if current != nil {
			if current.OptionID == optionID {
				return ErrAlreadyVoted
			}
			if _, err = s.pollRepo.TombstoneVote(ctx, current.ID); err != nil {
				return err
			}
		}

		err = s.pollRepo.CreateVote(ctx, &model.UserVote{
			UserID:    actorID,
			PostID:    postID,
			OptionID:  optionID,
			Live:      model.LiveMark(),
			CreatedAt: time.Now(),
		})
		if repository.IsDuplicateError(err) {
			return ErrAlreadyVoted
		}
		return err
	})
	metrics.InteractionsTotal.WithLabelValues("vote", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "poll voted", "postID", postID, "optionID", optionID, "userID", actorID)
	return nil
}

// GetMyVote 没有有效投票时返回 nil
func (s *PollServiceImpl) GetMyVote(ctx context.Context, postID, actorID uint64) (*uint64, error) {
	if actorID == 0 {
		return nil, nil
	}
	vote, err := s.pollRepo.GetLiveVote(ctx, actorID, postID)
	if err != nil || vote == nil {
		return nil, err
	}
	optionID := vote.OptionID
	return &optionID, nil
}

// Tally 按展示顺序返回有效选项的实时票数与总票数
func (s *PollServiceImpl) Tally(ctx context.Context, postID uint64) ([]*model.OptionTally, int64, error) {
	if _, err := s.livePoll(ctx, postID, false); err != nil {
		return nil, 0, err
	}
	options, counts, err := s.optionsWithCounts(ctx, postID)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	tallies := make([]*model.OptionTally, 0, len(options))
	for _, o := range options {
		tallies = append(tallies, &model.OptionTally{OptionID: o.ID, Count: counts[o.ID]})
		total += counts[o.ID]
	}
	return tallies, total, nil
}

func (s *PollServiceImpl) GetPollView(ctx context.Context, postID, viewerID uint64) (*dto.PollDTO, error) {
	if _, err := s.livePoll(ctx, postID, false); err != nil {
		return nil, err
	}
	options, counts, err := s.optionsWithCounts(ctx, postID)
	if err != nil {
		return nil, err
	}
	myVote, err := s.GetMyVote(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}

	view := &dto.PollDTO{
		PostID:     postID,
		Options:    make([]*dto.PollOptionDTO, 0, len(options)),
		MyOptionID: myVote,
	}
	for _, o := range options {
		view.TotalVotes += counts[o.ID]
	}
	for _, o := range options {
		item := &dto.PollOptionDTO{
			ID:           o.ID,
			OptionText:   o.OptionText,
			DisplayOrder: o.DisplayOrder,
			VoteCount:    counts[o.ID],
		}
		if view.TotalVotes > 0 {
			item.Percentage = math.Round(float64(item.VoteCount)*10000/float64(view.TotalVotes)) / 100
		}
		view.Options = append(view.Options, item)
	}
	return view, nil
}

// livePoll 帖子不存在或已删除返回 NotFound，非投票帖返回 ErrPostNotPoll
// 写操作传 lock，在帖子行上与删帖串行
func (s *PollServiceImpl) livePoll(ctx context.Context, postID uint64, lock bool) (*model.Post, error) {
	get := s.postRepo.GetPost
	if lock {
		get = s.postRepo.GetPostForUpdate
	}
	post, err := get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil || post.IsDeleted {
		return nil, ErrPostNotFound
	}
	if !post.IsPoll() {
		return nil, ErrPostNotPoll
	}
	return post, nil
}

// optionsWithCounts 墓碑选项上的票不计入
func (s *PollServiceImpl) optionsWithCounts(ctx context.Context, postID uint64) ([]*model.PollOption, map[uint64]int64, error) {
	options, err := s.pollRepo.ListOptions(ctx, postID, false)
	if err != nil {
		return nil, nil, err
	}
	counts, err := s.pollRepo.TallyByPost(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	return options, counts, nil
}
